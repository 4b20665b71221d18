package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/cbratkovics/nba-analytics/internal/domain/dataset"
	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
)

// DatasetLoader reads player-game rows from a local CSV path.
type DatasetLoader interface {
	Load(path string) (rows []playergame.PlayerGame, skipped int, columns int, err error)
}

// DatasetFetcher downloads player-game rows from a remote CSV URL.
type DatasetFetcher interface {
	Fetch(ctx context.Context, url string) (rows []playergame.PlayerGame, skipped int, columns int, err error)
}

type IngestionService struct {
	datasetRepo dataset.Repository
	gameRepo    playergame.Repository
	loader      DatasetLoader
	fetcher     DatasetFetcher
	batchSize   int
	workers     int
	logger      *logging.Logger
}

func NewIngestionService(
	datasetRepo dataset.Repository,
	gameRepo playergame.Repository,
	loader DatasetLoader,
	fetcher DatasetFetcher,
	batchSize int,
	workers int,
	logger *logging.Logger,
) *IngestionService {
	if batchSize < 1 {
		batchSize = 1000
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		datasetRepo: datasetRepo,
		gameRepo:    gameRepo,
		loader:      loader,
		fetcher:     fetcher,
		batchSize:   batchSize,
		workers:     workers,
		logger:      logger,
	}
}

type IngestInput struct {
	Name string
	Path string
	URL  string
}

func (s *IngestionService) Ingest(ctx context.Context, input IngestInput) (dataset.Dataset, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Path = strings.TrimSpace(input.Path)
	input.URL = strings.TrimSpace(input.URL)
	if input.Name == "" {
		return dataset.Dataset{}, fmt.Errorf("%w: dataset name is required", ErrInvalidInput)
	}
	if (input.Path == "") == (input.URL == "") {
		return dataset.Dataset{}, fmt.Errorf("%w: exactly one of path or url is required", ErrInvalidInput)
	}

	var (
		rows    []playergame.PlayerGame
		skipped int
		columns int
		source  string
		err     error
	)
	switch {
	case input.Path != "":
		source = input.Path
		rows, skipped, columns, err = s.loader.Load(input.Path)
	default:
		if s.fetcher == nil {
			return dataset.Dataset{}, fmt.Errorf("%w: remote dataset fetching is not configured", ErrDependencyUnavailable)
		}
		source = input.URL
		rows, skipped, columns, err = s.fetcher.Fetch(ctx, input.URL)
	}
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("load dataset rows: %w", err)
	}
	if len(rows) == 0 {
		return dataset.Dataset{}, fmt.Errorf("%w: dataset contains no rows", ErrInvalidInput)
	}

	now := time.Now().UTC()
	item := dataset.Dataset{
		ID:          newDatasetID(input.Name, now),
		Name:        input.Name,
		Source:      source,
		Status:      dataset.StatusLoaded,
		RowCount:    len(rows),
		ColumnCount: columns,
		SkippedRows: skipped,
		LoadedAt:    now,
	}
	for i := range rows {
		rows[i].DatasetID = item.ID
	}

	if err := s.datasetRepo.Create(ctx, item); err != nil {
		return dataset.Dataset{}, fmt.Errorf("create dataset: %w", err)
	}

	if err := s.insertRows(ctx, item.ID, rows); err != nil {
		return dataset.Dataset{}, err
	}

	s.logger.InfoContext(ctx, "dataset ingested",
		"dataset_id", item.ID,
		"rows", item.RowCount,
		"skipped", item.SkippedRows,
		"source", source,
	)
	return item, nil
}

// insertRows writes batches concurrently. Batches are independent so a
// worker pool keeps large datasets from serializing on insert latency.
func (s *IngestionService) insertRows(ctx context.Context, datasetID string, rows []playergame.PlayerGame) error {
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(s.workers)
	for start := 0; start < len(rows); start += s.batchSize {
		end := min(start+s.batchSize, len(rows))
		batch := rows[start:end]
		p.Go(func(ctx context.Context) error {
			if err := s.gameRepo.InsertBatch(ctx, datasetID, batch); err != nil {
				return fmt.Errorf("insert batch: %w", err)
			}
			return nil
		})
	}
	return p.Wait()
}

func (s *IngestionService) GetDataset(ctx context.Context, id string) (dataset.Dataset, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.GetDataset")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return dataset.Dataset{}, fmt.Errorf("%w: dataset id is required", ErrInvalidInput)
	}

	item, found, err := s.datasetRepo.GetByID(ctx, id)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("get dataset: %w", err)
	}
	if !found {
		return dataset.Dataset{}, fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	return item, nil
}

func (s *IngestionService) ListDatasets(ctx context.Context) ([]dataset.Dataset, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ListDatasets")
	defer span.End()

	items, err := s.datasetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return items, nil
}

func newDatasetID(name string, at time.Time) string {
	sum := sha256.Sum256([]byte(name + "|" + at.Format(time.RFC3339Nano)))
	return "ds_" + hex.EncodeToString(sum[:8])
}
