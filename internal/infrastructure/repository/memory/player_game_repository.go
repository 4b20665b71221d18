package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
)

type PlayerGameRepository struct {
	mu   sync.RWMutex
	rows map[string][]playergame.PlayerGame
}

func NewPlayerGameRepository() *PlayerGameRepository {
	return &PlayerGameRepository{
		rows: make(map[string][]playergame.PlayerGame),
	}
}

func (r *PlayerGameRepository) InsertBatch(_ context.Context, datasetID string, rows []playergame.PlayerGame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[datasetID] = append(r.rows[datasetID], rows...)
	return nil
}

func (r *PlayerGameRepository) ReplaceAll(_ context.Context, datasetID string, rows []playergame.PlayerGame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[datasetID] = append([]playergame.PlayerGame(nil), rows...)
	return nil
}

func (r *PlayerGameRepository) ListByDataset(_ context.Context, datasetID string) ([]playergame.PlayerGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// The Missing and OutlierFlags maps are cloned so callers mutating a
	// returned row cannot reach stored state outside the lock.
	out := make([]playergame.PlayerGame, len(r.rows[datasetID]))
	for i, row := range r.rows[datasetID] {
		row.Missing = maps.Clone(row.Missing)
		row.OutlierFlags = maps.Clone(row.OutlierFlags)
		out[i] = row
	}
	return out, nil
}

func (r *PlayerGameRepository) CountByDataset(_ context.Context, datasetID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rows[datasetID]), nil
}

func (r *PlayerGameRepository) ListSeasons(_ context.Context, datasetID string) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int]bool)
	for _, row := range r.rows[datasetID] {
		seen[row.Season] = true
	}
	seasons := make([]int, 0, len(seen))
	for season := range seen {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	return seasons, nil
}
