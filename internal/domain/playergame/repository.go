package playergame

import "context"

type Repository interface {
	InsertBatch(ctx context.Context, datasetID string, rows []PlayerGame) error
	ReplaceAll(ctx context.Context, datasetID string, rows []PlayerGame) error
	ListByDataset(ctx context.Context, datasetID string) ([]PlayerGame, error)
	CountByDataset(ctx context.Context, datasetID string) (int, error)
	ListSeasons(ctx context.Context, datasetID string) ([]int, error)
}
