package memory

import (
	"context"
	"sync"

	"github.com/cbratkovics/nba-analytics/internal/domain/analysis"
)

type AnalysisRepository struct {
	mu     sync.RWMutex
	items  map[string]analysis.Report
	orders []string
}

func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{
		items: make(map[string]analysis.Report),
	}
}

func (r *AnalysisRepository) Save(_ context.Context, report analysis.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[report.ID]; !exists {
		r.orders = append(r.orders, report.ID)
	}
	r.items[report.ID] = report
	return nil
}

func (r *AnalysisRepository) GetByID(_ context.Context, id string) (analysis.Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return analysis.Report{}, false, nil
	}
	return item, true, nil
}

func (r *AnalysisRepository) ListByDataset(_ context.Context, datasetID string) ([]analysis.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]analysis.Report, 0, len(r.orders))
	for _, id := range r.orders {
		if r.items[id].DatasetID == datasetID {
			out = append(out, r.items[id])
		}
	}
	return out, nil
}
