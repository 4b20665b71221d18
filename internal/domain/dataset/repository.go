package dataset

import "context"

type Repository interface {
	Create(ctx context.Context, item Dataset) error
	GetByID(ctx context.Context, id string) (Dataset, bool, error)
	List(ctx context.Context) ([]Dataset, error)
	Update(ctx context.Context, item Dataset) error
}
