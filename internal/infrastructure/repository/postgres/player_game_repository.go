package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
	qb "github.com/cbratkovics/nba-analytics/internal/platform/querybuilder"
)

// insertChunkSize keeps multi-row inserts comfortably under the
// postgres bind-parameter limit (65535 / 37 columns).
const insertChunkSize = 500

var playerGameColumns = []string{
	"dataset_id",
	"player_id", "player_first_name", "player_last_name", "player_full_name",
	"position", "position_std",
	"team_id", "team_abbreviation", "team_name",
	"game_id", "game_date", "season", "postseason", "home", "rest_days",
	"minutes_played",
	"pts", "reb", "oreb", "dreb", "ast", "stl", "blk", "turnover", "pf",
	"fgm", "fga", "fg_pct",
	"fg3m", "fg3a", "fg3_pct",
	"ftm", "fta", "ft_pct",
	"missing_fields", "outlier_flags",
}

type PlayerGameRepository struct {
	db *sqlx.DB
}

func NewPlayerGameRepository(db *sqlx.DB) *PlayerGameRepository {
	return &PlayerGameRepository{db: db}
}

func (r *PlayerGameRepository) InsertBatch(ctx context.Context, datasetID string, rows []playergame.PlayerGame) error {
	return r.insertChunks(ctx, r.db, datasetID, rows)
}

// ReplaceAll swaps a dataset's rows inside one transaction so readers
// never observe a half-cleaned dataset.
func (r *PlayerGameRepository) ReplaceAll(ctx context.Context, datasetID string, rows []playergame.PlayerGame) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM player_games WHERE dataset_id = $1", datasetID); err != nil {
		return fmt.Errorf("delete dataset rows: %w", err)
	}
	if err := r.insertChunks(ctx, tx, datasetID, rows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace transaction: %w", err)
	}
	return nil
}

func (r *PlayerGameRepository) insertChunks(ctx context.Context, db sqlx.ExtContext, datasetID string, rows []playergame.PlayerGame) error {
	for start := 0; start < len(rows); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(rows) {
			end = len(rows)
		}

		builder := qb.InsertInto("player_games").Columns(playerGameColumns...)
		for i := start; i < end; i++ {
			g := &rows[i]
			missing, err := encodeFlags(g.Missing)
			if err != nil {
				return fmt.Errorf("encode missing fields: %w", err)
			}
			flags, err := encodeFlags(g.OutlierFlags)
			if err != nil {
				return fmt.Errorf("encode outlier flags: %w", err)
			}
			builder.Values(
				datasetID,
				g.PlayerID, g.PlayerFirstName, g.PlayerLastName, g.PlayerFullName,
				g.Position, g.PositionStd,
				g.TeamID, g.TeamAbbreviation, g.TeamName,
				g.GameID, g.GameDate, g.Season, g.Postseason, g.Home, g.RestDays,
				g.MinutesPlayed,
				g.Points, g.Rebounds, g.OffReb, g.DefReb, g.Assists, g.Steals, g.Blocks, g.Turnovers, g.Fouls,
				g.FGM, g.FGA, g.FGPct,
				g.FG3M, g.FG3A, g.FG3Pct,
				g.FTM, g.FTA, g.FTPct,
				missing, flags,
			)
		}

		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert player games query: %w", err)
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player games: %w", err)
		}
	}
	return nil
}

func (r *PlayerGameRepository) ListByDataset(ctx context.Context, datasetID string) ([]playergame.PlayerGame, error) {
	query, args, err := qb.Select("*").From("player_games").
		Where(qb.Eq("dataset_id", datasetID)).
		OrderBy("game_date", "player_id", "game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player games query: %w", err)
	}

	var rows []playerGameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player games: %w", err)
	}

	out := make([]playergame.PlayerGame, 0, len(rows))
	for _, row := range rows {
		g, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *PlayerGameRepository) CountByDataset(ctx context.Context, datasetID string) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("player_games").
		Where(qb.Eq("dataset_id", datasetID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count player games query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count player games: %w", err)
	}
	return count, nil
}

func (r *PlayerGameRepository) ListSeasons(ctx context.Context, datasetID string) ([]int, error) {
	query, args, err := qb.Select("season").From("player_games").
		Where(qb.Eq("dataset_id", datasetID)).
		GroupBy("season").
		OrderBy("season").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var seasons []int
	if err := r.db.SelectContext(ctx, &seasons, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}
	return seasons, nil
}
