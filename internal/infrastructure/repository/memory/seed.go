package memory

import (
	"time"

	"github.com/cbratkovics/nba-analytics/internal/domain/dataset"
	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
)

// SeedDataset returns a deterministic dataset for service tests.
func SeedDataset(id string) dataset.Dataset {
	return dataset.Dataset{
		ID:          id,
		Name:        "seed",
		Source:      "seed.csv",
		Status:      dataset.StatusLoaded,
		RowCount:    len(SeedPlayerGames(id)),
		ColumnCount: 30,
		LoadedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// SeedPlayerGames returns a small deterministic slate: two players,
// alternating home and away, two games per day apart.
func SeedPlayerGames(datasetID string) []playergame.PlayerGame {
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	players := []struct {
		id    int64
		first string
		last  string
		pos   string
	}{
		{1, "Alpha", "Guardson", "G"},
		{2, "Beta", "Bigman", "C"},
	}

	var out []playergame.PlayerGame
	gameID := int64(100)
	for day := 0; day < 12; day++ {
		date := base.AddDate(0, 0, day*2)
		for _, p := range players {
			gameID++
			pts := float64(10 + day + int(p.id)*3)
			out = append(out, playergame.PlayerGame{
				DatasetID:        datasetID,
				PlayerID:         p.id,
				PlayerFirstName:  p.first,
				PlayerLastName:   p.last,
				PlayerFullName:   p.first + " " + p.last,
				Position:         p.pos,
				TeamID:           p.id * 10,
				TeamAbbreviation: "T" + p.first[:1],
				GameID:           gameID,
				GameDate:         date,
				Season:           2023,
				Home:             day%2 == 0,
				MinutesPlayed:    30 + float64(day%5),
				Points:           pts,
				Rebounds:         5 + float64(int(p.id)*2),
				OffReb:           2,
				DefReb:           3 + float64(int(p.id)*2),
				Assists:          4 + float64(day%3),
				Steals:           1,
				Blocks:           float64(p.id - 1),
				Turnovers:        2,
				Fouls:            3,
				FGM:              pts / 2.5,
				FGA:              pts / 1.2,
				FGPct:            (pts / 2.5) / (pts / 1.2),
				FG3M:             1,
				FG3A:             4,
				FG3Pct:           0.25,
				FTM:              3,
				FTA:              4,
				FTPct:            0.75,
			})
		}
	}
	return out
}
