package usecase

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/cbratkovics/nba-analytics/internal/domain/analysis"
	"github.com/cbratkovics/nba-analytics/internal/domain/dataset"
	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
	"github.com/cbratkovics/nba-analytics/internal/infrastructure/repository/memory"
	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
)

// hypothesisFixture builds rows where home scoring clearly beats away
// scoring, so the home/away pts comparison should come out significant.
func hypothesisFixture(datasetID string) []playergame.PlayerGame {
	rng := rand.New(rand.NewSource(42))
	rows := make([]playergame.PlayerGame, 0, 200)
	for i := 0; i < 200; i++ {
		home := i%2 == 0
		pts := 15 + rng.NormFloat64()*4
		if home {
			pts += 10
		}
		rest := 0
		if i%3 == 0 {
			rest = 3
		}
		pos := playergame.PositionGuard
		if i%2 == 0 {
			pos = playergame.PositionCenter
		}
		rows = append(rows, playergame.PlayerGame{
			DatasetID:   datasetID,
			PlayerID:    int64(i%10 + 1),
			GameID:      int64(i + 1),
			GameDate:    date(1 + i%28),
			Home:        home,
			RestDays:    rest,
			Postseason:  i%4 == 0,
			PositionStd: pos,
			Points:      pts,
			Rebounds:    5 + rng.NormFloat64(),
			Assists:     4 + rng.NormFloat64(),
			FGPct:       0.45 + rng.NormFloat64()*0.05,
		})
	}
	return rows
}

func seededHypothesisService(t *testing.T, reports hypothesisReportWriter) (*HypothesisService, string) {
	t.Helper()
	ctx := context.Background()
	item := memory.SeedDataset("ds_hyp")
	datasetRepo := memory.NewDatasetRepository([]dataset.Dataset{item})
	gameRepo := memory.NewPlayerGameRepository()
	if err := gameRepo.InsertBatch(ctx, item.ID, hypothesisFixture(item.ID)); err != nil {
		t.Fatalf("seed rows: %v", err)
	}
	return NewHypothesisService(datasetRepo, gameRepo, reports, 0.05, 4, logging.NewNop()), item.ID
}

func TestHypothesisServiceRunTest(t *testing.T) {
	svc, datasetID := seededHypothesisService(t, nil)

	result, err := svc.RunTest(context.Background(), datasetID, HypothesisInput{
		Metric:   "pts",
		Grouping: GroupingHomeAway,
	})
	if err != nil {
		t.Fatalf("run test: %v", err)
	}
	if result.GroupA != "home" || result.GroupB != "away" {
		t.Fatalf("unexpected groups: %q vs %q", result.GroupA, result.GroupB)
	}
	if result.SampleSizeA != 100 || result.SampleSizeB != 100 {
		t.Fatalf("unexpected sample sizes: %d, %d", result.SampleSizeA, result.SampleSizeB)
	}
	if result.MeanA <= result.MeanB {
		t.Fatalf("expected home mean above away: %v vs %v", result.MeanA, result.MeanB)
	}
	if !result.Significant || result.PValue >= 0.05 {
		t.Fatalf("expected a significant 10-point gap, got p=%v", result.PValue)
	}
	if result.TestUsed != "pooled t-test" && result.TestUsed != "welch t-test" {
		t.Fatalf("unexpected test used: %q", result.TestUsed)
	}
	if len(result.Assumptions) != 3 {
		t.Fatalf("expected 3 assumption checks, got %d", len(result.Assumptions))
	}
	if result.UPValue <= 0 || result.UPValue >= 0.05 {
		t.Fatalf("expected Mann-Whitney agreement, got p=%v", result.UPValue)
	}
	if result.CohensD <= 0.8 {
		t.Fatalf("expected a large effect size, got d=%v", result.CohensD)
	}
	if result.EffectSize != "large" {
		t.Fatalf("expected large effect label, got %q", result.EffectSize)
	}
}

func TestHypothesisServiceRunTestPositionGrouping(t *testing.T) {
	svc, datasetID := seededHypothesisService(t, nil)

	result, err := svc.RunTest(context.Background(), datasetID, HypothesisInput{
		Metric:    "reb",
		Grouping:  GroupingPosition,
		PositionA: playergame.PositionGuard,
		PositionB: playergame.PositionCenter,
	})
	if err != nil {
		t.Fatalf("run test: %v", err)
	}
	if result.GroupA != playergame.PositionGuard || result.GroupB != playergame.PositionCenter {
		t.Fatalf("unexpected groups: %q vs %q", result.GroupA, result.GroupB)
	}

	_, err = svc.RunTest(context.Background(), datasetID, HypothesisInput{
		Metric:   "reb",
		Grouping: GroupingPosition,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without positions, got %v", err)
	}
}

func TestHypothesisServiceRunTestZeroVariance(t *testing.T) {
	ctx := context.Background()
	item := memory.SeedDataset("ds_flat")
	datasetRepo := memory.NewDatasetRepository([]dataset.Dataset{item})
	gameRepo := memory.NewPlayerGameRepository()

	rows := make([]playergame.PlayerGame, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, playergame.PlayerGame{
			DatasetID: item.ID,
			PlayerID:  int64(i + 1),
			GameID:    int64(i + 1),
			GameDate:  date(1),
			Home:      i%2 == 0,
			Points:    10,
		})
	}
	if err := gameRepo.InsertBatch(ctx, item.ID, rows); err != nil {
		t.Fatalf("seed rows: %v", err)
	}

	svc := NewHypothesisService(datasetRepo, gameRepo, nil, 0.05, 2, logging.NewNop())
	result, err := svc.RunTest(ctx, item.ID, HypothesisInput{Metric: "pts", Grouping: GroupingHomeAway})
	if err != nil {
		t.Fatalf("run test: %v", err)
	}
	if result.Note == "" {
		t.Fatal("expected a note for the undefined t-statistic")
	}
	if result.Significant {
		t.Fatal("zero-variance comparison must not be significant")
	}
	if result.PValue != 1 || result.TStatistic != 0 {
		t.Fatalf("expected sanitized statistics, got t=%v p=%v", result.TStatistic, result.PValue)
	}
}

func TestHypothesisServiceRunSuite(t *testing.T) {
	analysisRepo := memory.NewAnalysisRepository()
	reports := NewReportService(analysisRepo, logging.NewNop())
	svc, datasetID := seededHypothesisService(t, reports)

	summary, err := svc.RunSuite(context.Background(), datasetID, 0)
	if err != nil {
		t.Fatalf("run suite: %v", err)
	}
	if want := len(suiteMetrics) * len(suiteGroupings); len(summary.Results) != want {
		t.Fatalf("expected %d results, got %d", want, len(summary.Results))
	}
	if summary.Alpha != 0.05 {
		t.Fatalf("expected default alpha, got %v", summary.Alpha)
	}

	// Suite order is grouping-major over the metric list.
	idx := 0
	for _, grouping := range suiteGroupings {
		for _, metric := range suiteMetrics {
			got := summary.Results[idx]
			if got.Metric != metric || got.Grouping != grouping {
				t.Fatalf("result %d: expected %s by %s, got %s by %s",
					idx, metric, grouping, got.Metric, got.Grouping)
			}
			idx++
		}
	}

	saved, err := analysisRepo.ListByDataset(context.Background(), datasetID)
	if err != nil || len(saved) != 1 {
		t.Fatalf("expected one saved report, got %d err=%v", len(saved), err)
	}
	if saved[0].Kind != analysis.KindHypothesis {
		t.Fatalf("expected hypothesis report kind, got %q", saved[0].Kind)
	}
}

func TestHypothesisServiceInvalidInput(t *testing.T) {
	svc, datasetID := seededHypothesisService(t, nil)
	ctx := context.Background()

	if _, err := svc.RunTest(ctx, datasetID, HypothesisInput{Metric: "nope", Grouping: GroupingHomeAway}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown metric, got %v", err)
	}
	if _, err := svc.RunTest(ctx, datasetID, HypothesisInput{Metric: "pts", Grouping: "weekday"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown grouping, got %v", err)
	}
	if _, err := svc.RunSuite(ctx, datasetID, 1.5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for out-of-range alpha, got %v", err)
	}
	if _, err := svc.RunSuite(ctx, "ds_missing", 0.05); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
