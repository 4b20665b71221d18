package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
	"github.com/cbratkovics/nba-analytics/internal/infrastructure/repository/memory"
	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
)

type stubLoader struct {
	rows    []playergame.PlayerGame
	skipped int
	columns int
	err     error
}

func (l stubLoader) Load(string) ([]playergame.PlayerGame, int, int, error) {
	return l.rows, l.skipped, l.columns, l.err
}

type stubFetcher struct {
	rows []playergame.PlayerGame
	err  error
}

func (f stubFetcher) Fetch(context.Context, string) ([]playergame.PlayerGame, int, int, error) {
	return f.rows, 0, 42, f.err
}

func TestIngestionServiceIngestFromPath(t *testing.T) {
	ctx := context.Background()
	datasetRepo := memory.NewDatasetRepository(nil)
	gameRepo := memory.NewPlayerGameRepository()
	loader := stubLoader{rows: memory.SeedPlayerGames(""), skipped: 3, columns: 42}

	svc := NewIngestionService(datasetRepo, gameRepo, loader, nil, 5, 3, logging.NewNop())
	item, err := svc.Ingest(ctx, IngestInput{Name: "season 2023", Path: "games.csv"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !strings.HasPrefix(item.ID, "ds_") {
		t.Fatalf("expected ds_ prefixed id, got %q", item.ID)
	}
	if item.RowCount != len(loader.rows) || item.SkippedRows != 3 || item.ColumnCount != 42 {
		t.Fatalf("unexpected dataset counters: %+v", item)
	}

	count, err := gameRepo.CountByDataset(ctx, item.ID)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != len(loader.rows) {
		t.Fatalf("expected %d stored rows, got %d", len(loader.rows), count)
	}

	rows, err := gameRepo.ListByDataset(ctx, item.ID)
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	for i := range rows {
		if rows[i].DatasetID != item.ID {
			t.Fatalf("row %d not tagged with dataset id: %q", i, rows[i].DatasetID)
		}
	}

	got, err := svc.GetDataset(ctx, item.ID)
	if err != nil {
		t.Fatalf("get dataset: %v", err)
	}
	if got.Name != "season 2023" {
		t.Fatalf("unexpected dataset: %+v", got)
	}

	all, err := svc.ListDatasets(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected one dataset listed, got %d err=%v", len(all), err)
	}
}

func TestIngestionServiceIngestFromURL(t *testing.T) {
	fetcher := stubFetcher{rows: memory.SeedPlayerGames("")}
	svc := NewIngestionService(
		memory.NewDatasetRepository(nil),
		memory.NewPlayerGameRepository(),
		stubLoader{}, fetcher,
		100, 2,
		logging.NewNop(),
	)

	item, err := svc.Ingest(context.Background(), IngestInput{Name: "remote", URL: "https://example.com/games.csv"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if item.Source != "https://example.com/games.csv" {
		t.Fatalf("expected URL recorded as source, got %q", item.Source)
	}
}

func TestIngestionServiceIngestValidation(t *testing.T) {
	svc := NewIngestionService(
		memory.NewDatasetRepository(nil),
		memory.NewPlayerGameRepository(),
		stubLoader{rows: memory.SeedPlayerGames("")}, nil,
		100, 2,
		logging.NewNop(),
	)
	ctx := context.Background()

	cases := []IngestInput{
		{Path: "games.csv"},                            // no name
		{Name: "x"},                                    // neither source
		{Name: "x", Path: "games.csv", URL: "http://"}, // both sources
	}
	for _, input := range cases {
		if _, err := svc.Ingest(ctx, input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}

	// URL ingest without a configured fetcher.
	if _, err := svc.Ingest(ctx, IngestInput{Name: "x", URL: "https://example.com/a.csv"}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestIngestionServiceIngestEmptyDataset(t *testing.T) {
	svc := NewIngestionService(
		memory.NewDatasetRepository(nil),
		memory.NewPlayerGameRepository(),
		stubLoader{}, nil,
		100, 2,
		logging.NewNop(),
	)
	if _, err := svc.Ingest(context.Background(), IngestInput{Name: "x", Path: "empty.csv"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty dataset, got %v", err)
	}
}

func TestIngestionServiceIngestLoaderError(t *testing.T) {
	loadErr := errors.New("disk gone")
	svc := NewIngestionService(
		memory.NewDatasetRepository(nil),
		memory.NewPlayerGameRepository(),
		stubLoader{err: loadErr}, nil,
		100, 2,
		logging.NewNop(),
	)
	if _, err := svc.Ingest(context.Background(), IngestInput{Name: "x", Path: "games.csv"}); !errors.Is(err, loadErr) {
		t.Fatalf("expected loader error surfaced, got %v", err)
	}
}
