package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbratkovics/nba-analytics/internal/domain/dataset"
)

type DatasetRepository struct {
	mu     sync.RWMutex
	items  map[string]dataset.Dataset
	orders []string
}

func NewDatasetRepository(items []dataset.Dataset) *DatasetRepository {
	byID := make(map[string]dataset.Dataset, len(items))
	orders := make([]string, 0, len(items))
	for _, d := range items {
		byID[d.ID] = d
		orders = append(orders, d.ID)
	}
	return &DatasetRepository{
		items:  byID,
		orders: orders,
	}
}

func (r *DatasetRepository) Create(_ context.Context, item dataset.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("dataset %s already exists", item.ID)
	}
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *DatasetRepository) GetByID(_ context.Context, id string) (dataset.Dataset, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return dataset.Dataset{}, false, nil
	}
	return item, true, nil
}

func (r *DatasetRepository) List(_ context.Context) ([]dataset.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dataset.Dataset, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *DatasetRepository) Update(_ context.Context, item dataset.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		return fmt.Errorf("dataset %s does not exist", item.ID)
	}
	r.items[item.ID] = item
	return nil
}
