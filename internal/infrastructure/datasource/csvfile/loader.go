package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
)

// LoadResult carries the parsed rows plus the bookkeeping the ingest
// pipeline records on the dataset.
type LoadResult struct {
	Rows        []playergame.PlayerGame
	SkippedRows int
	ColumnCount int
}

// Loader adapts Load to the ingestion service's loader interface.
type Loader struct{}

func (Loader) Load(path string) ([]playergame.PlayerGame, int, int, error) {
	res, err := Load(path)
	if err != nil {
		return nil, 0, 0, err
	}
	return res.Rows, res.SkippedRows, res.ColumnCount, nil
}

// Load reads a player-game CSV from disk.
func Load(path string) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a player-game CSV. Column mapping is header driven, so
// column order does not matter and unknown columns are ignored. Rows
// that cannot be parsed are skipped and counted rather than failing
// the whole file.
func Parse(r io.Reader) (LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return LoadResult{}, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeColumn(name)] = i
	}
	if _, ok := columns["player_id"]; !ok {
		return LoadResult{}, fmt.Errorf("csv header is missing player_id")
	}
	if _, ok := columns["game_id"]; !ok {
		return LoadResult{}, fmt.Errorf("csv header is missing game_id")
	}

	result := LoadResult{ColumnCount: len(header)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				result.SkippedRows++
				continue
			}
			return LoadResult{}, fmt.Errorf("read csv row: %w", err)
		}
		if len(record) != len(header) {
			result.SkippedRows++
			continue
		}

		row, ok := parseRow(columns, record)
		if !ok {
			result.SkippedRows++
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	if len(result.Rows) == 0 {
		return LoadResult{}, fmt.Errorf("csv contains no parseable rows")
	}
	return result, nil
}

func parseRow(columns map[string]int, record []string) (playergame.PlayerGame, bool) {
	var row playergame.PlayerGame
	ok := true

	field := func(names ...string) (string, bool) {
		for _, name := range names {
			if idx, found := columns[name]; found {
				return strings.TrimSpace(record[idx]), true
			}
		}
		return "", false
	}

	intField := func(dst *int64, names ...string) {
		raw, found := field(names...)
		if !found || raw == "" {
			return
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			ok = false
			return
		}
		*dst = v
	}

	// Missing values are recorded under the canonical column name
	// (names[0]) even when an alias header matched, so downstream
	// missing-value counts line up with the schema's column names.
	floatField := func(dst *float64, names ...string) {
		raw, found := field(names...)
		if !found {
			return
		}
		if raw == "" {
			row.SetMissing(names[0])
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			ok = false
			return
		}
		*dst = v
	}

	intField(&row.PlayerID, "player_id")
	intField(&row.GameID, "game_id")
	intField(&row.TeamID, "team_id")
	if row.PlayerID <= 0 || row.GameID <= 0 {
		return playergame.PlayerGame{}, false
	}

	row.PlayerFirstName, _ = field("first_name", "player_first_name")
	row.PlayerLastName, _ = field("last_name", "player_last_name")
	row.PlayerFullName, _ = field("player_name", "full_name")
	row.Position, _ = field("position", "player_position")
	row.TeamAbbreviation, _ = field("team_abbreviation", "team_abbr")
	row.TeamName, _ = field("team_name", "team_full_name")

	if raw, found := field("game_date", "date"); found && raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return playergame.PlayerGame{}, false
		}
		row.GameDate = date
	}
	if raw, found := field("season"); found && raw != "" {
		season, err := strconv.Atoi(raw)
		if err != nil {
			return playergame.PlayerGame{}, false
		}
		row.Season = season
	}
	if raw, found := field("postseason", "is_postseason"); found && raw != "" {
		b, err := parseBool(raw)
		if err != nil {
			return playergame.PlayerGame{}, false
		}
		row.Postseason = b
	}
	if raw, found := field("home_away"); found && raw != "" {
		switch strings.ToLower(raw) {
		case "home", "h":
			row.Home = true
		case "away", "a", "road":
			row.Home = false
		default:
			return playergame.PlayerGame{}, false
		}
	} else if raw, found := field("is_home", "home"); found && raw != "" {
		b, err := parseBool(raw)
		if err != nil {
			return playergame.PlayerGame{}, false
		}
		row.Home = b
	}

	if raw, found := field("min", "minutes", "minutes_played"); found {
		if raw == "" {
			row.SetMissing("min")
		} else {
			minutes, err := parseMinutes(raw)
			if err != nil {
				return playergame.PlayerGame{}, false
			}
			row.MinutesPlayed = minutes
		}
	}

	floatField(&row.Points, "pts", "points")
	floatField(&row.Rebounds, "reb", "rebounds")
	floatField(&row.OffReb, "oreb", "offensive_rebounds")
	floatField(&row.DefReb, "dreb", "defensive_rebounds")
	floatField(&row.Assists, "ast", "assists")
	floatField(&row.Steals, "stl", "steals")
	floatField(&row.Blocks, "blk", "blocks")
	floatField(&row.Turnovers, "turnover", "tov", "turnovers")
	floatField(&row.Fouls, "pf", "fouls")
	floatField(&row.FGM, "fgm")
	floatField(&row.FGA, "fga")
	floatField(&row.FGPct, "fg_pct")
	floatField(&row.FG3M, "fg3m")
	floatField(&row.FG3A, "fg3a")
	floatField(&row.FG3Pct, "fg3_pct")
	floatField(&row.FTM, "ftm")
	floatField(&row.FTA, "fta")
	floatField(&row.FTPct, "ft_pct")

	if !ok {
		return playergame.PlayerGame{}, false
	}
	return row, true
}

// parseMinutes accepts both "34:21" clock format and plain decimals.
func parseMinutes(raw string) (float64, error) {
	if !strings.Contains(raw, ":") {
		return strconv.ParseFloat(raw, 64)
	}

	parts := strings.SplitN(raw, ":", 2)
	mins, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", raw, err)
	}
	secs, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", raw, err)
	}
	if secs < 0 || secs >= 60 {
		return 0, fmt.Errorf("parse minutes %q: seconds out of range", raw)
	}
	return mins + secs/60, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "01/02/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "t", "1", "yes":
		return true, nil
	case "false", "f", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized bool %q", raw)
	}
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "\uFEFF")
	return strings.ReplaceAll(name, " ", "_")
}
