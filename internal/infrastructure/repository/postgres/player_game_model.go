package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
)

type playerGameTableModel struct {
	ID        int64  `db:"id"`
	DatasetID string `db:"dataset_id"`

	PlayerID        int64  `db:"player_id"`
	PlayerFirstName string `db:"player_first_name"`
	PlayerLastName  string `db:"player_last_name"`
	PlayerFullName  string `db:"player_full_name"`
	Position        string `db:"position"`
	PositionStd     string `db:"position_std"`

	TeamID           int64  `db:"team_id"`
	TeamAbbreviation string `db:"team_abbreviation"`
	TeamName         string `db:"team_name"`

	GameID     int64     `db:"game_id"`
	GameDate   time.Time `db:"game_date"`
	Season     int       `db:"season"`
	Postseason bool      `db:"postseason"`
	Home       bool      `db:"home"`
	RestDays   int       `db:"rest_days"`

	MinutesPlayed float64 `db:"minutes_played"`

	Points    float64 `db:"pts"`
	Rebounds  float64 `db:"reb"`
	OffReb    float64 `db:"oreb"`
	DefReb    float64 `db:"dreb"`
	Assists   float64 `db:"ast"`
	Steals    float64 `db:"stl"`
	Blocks    float64 `db:"blk"`
	Turnovers float64 `db:"turnover"`
	Fouls     float64 `db:"pf"`

	FGM   float64 `db:"fgm"`
	FGA   float64 `db:"fga"`
	FGPct float64 `db:"fg_pct"`

	FG3M   float64 `db:"fg3m"`
	FG3A   float64 `db:"fg3a"`
	FG3Pct float64 `db:"fg3_pct"`

	FTM   float64 `db:"ftm"`
	FTA   float64 `db:"fta"`
	FTPct float64 `db:"ft_pct"`

	MissingFields []byte `db:"missing_fields"`
	OutlierFlags  []byte `db:"outlier_flags"`
}

func (m playerGameTableModel) toDomain() (playergame.PlayerGame, error) {
	out := playergame.PlayerGame{
		ID:               m.ID,
		DatasetID:        m.DatasetID,
		PlayerID:         m.PlayerID,
		PlayerFirstName:  m.PlayerFirstName,
		PlayerLastName:   m.PlayerLastName,
		PlayerFullName:   m.PlayerFullName,
		Position:         m.Position,
		PositionStd:      m.PositionStd,
		TeamID:           m.TeamID,
		TeamAbbreviation: m.TeamAbbreviation,
		TeamName:         m.TeamName,
		GameID:           m.GameID,
		GameDate:         m.GameDate,
		Season:           m.Season,
		Postseason:       m.Postseason,
		Home:             m.Home,
		RestDays:         m.RestDays,
		MinutesPlayed:    m.MinutesPlayed,
		Points:           m.Points,
		Rebounds:         m.Rebounds,
		OffReb:           m.OffReb,
		DefReb:           m.DefReb,
		Assists:          m.Assists,
		Steals:           m.Steals,
		Blocks:           m.Blocks,
		Turnovers:        m.Turnovers,
		Fouls:            m.Fouls,
		FGM:              m.FGM,
		FGA:              m.FGA,
		FGPct:            m.FGPct,
		FG3M:             m.FG3M,
		FG3A:             m.FG3A,
		FG3Pct:           m.FG3Pct,
		FTM:              m.FTM,
		FTA:              m.FTA,
		FTPct:            m.FTPct,
	}

	if len(m.MissingFields) > 0 {
		if err := sonic.Unmarshal(m.MissingFields, &out.Missing); err != nil {
			return playergame.PlayerGame{}, fmt.Errorf("decode missing fields: %w", err)
		}
	}
	if len(m.OutlierFlags) > 0 {
		if err := sonic.Unmarshal(m.OutlierFlags, &out.OutlierFlags); err != nil {
			return playergame.PlayerGame{}, fmt.Errorf("decode outlier flags: %w", err)
		}
	}
	return out, nil
}

func encodeFlags(flags map[string]bool) ([]byte, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	return sonic.Marshal(flags)
}
