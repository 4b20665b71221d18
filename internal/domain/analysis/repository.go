package analysis

import "context"

type Repository interface {
	Save(ctx context.Context, report Report) error
	GetByID(ctx context.Context, id string) (Report, bool, error)
	ListByDataset(ctx context.Context, datasetID string) ([]Report, error)
}
