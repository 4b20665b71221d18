package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/cbratkovics/nba-analytics/internal/domain/analysis"
	"github.com/cbratkovics/nba-analytics/internal/infrastructure/repository/memory"
	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
)

func TestReportServiceSaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAnalysisRepository()
	svc := NewReportService(repo, logging.NewNop())

	summary := analysis.EDASummary{
		DatasetID: "ds_abc",
		RowCount:  10,
		Columns: []analysis.ColumnSummary{
			{Name: "pts", Kind: analysis.ColumnNumeric, Count: 10, Mean: 21.5},
		},
		GeneratedAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
	}

	saved, err := svc.SaveEDA(ctx, summary)
	if err != nil {
		t.Fatalf("save eda: %v", err)
	}
	if !strings.HasPrefix(saved.ID, "rp_") {
		t.Fatalf("expected rp_ prefixed id, got %q", saved.ID)
	}
	if saved.Kind != analysis.KindEDA || saved.DatasetID != "ds_abc" {
		t.Fatalf("unexpected report: %+v", saved)
	}
	if !strings.Contains(saved.Text, "EXPLORATORY DATA ANALYSIS") {
		t.Fatal("expected rendered text on the report")
	}

	var decoded analysis.EDASummary
	if err := sonic.Unmarshal(saved.Payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.RowCount != 10 || len(decoded.Columns) != 1 {
		t.Fatalf("payload round trip mismatch: %+v", decoded)
	}

	got, err := svc.GetReport(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got.ID != saved.ID || got.Kind != saved.Kind {
		t.Fatalf("unexpected fetched report: %+v", got)
	}
}

func TestReportServiceListByDataset(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(memory.NewAnalysisRepository(), logging.NewNop())

	base := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	if _, err := svc.SaveCleaning(ctx, analysis.CleaningReport{DatasetID: "ds_1", GeneratedAt: base}); err != nil {
		t.Fatalf("save cleaning: %v", err)
	}
	if _, err := svc.SaveHypothesis(ctx, analysis.HypothesisSummary{DatasetID: "ds_1", Alpha: 0.05, GeneratedAt: base.Add(time.Minute)}); err != nil {
		t.Fatalf("save hypothesis: %v", err)
	}
	if _, err := svc.SaveCleaning(ctx, analysis.CleaningReport{DatasetID: "ds_2", GeneratedAt: base}); err != nil {
		t.Fatalf("save other dataset: %v", err)
	}

	items, err := svc.ListReports(ctx, "ds_1")
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 reports for ds_1, got %d", len(items))
	}
	if items[0].Kind != analysis.KindCleaning || items[1].Kind != analysis.KindHypothesis {
		t.Fatalf("expected insertion order preserved, got %q then %q", items[0].Kind, items[1].Kind)
	}
}

func TestReportServiceErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(memory.NewAnalysisRepository(), logging.NewNop())

	if _, err := svc.SaveEDA(ctx, analysis.EDASummary{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without dataset id, got %v", err)
	}
	if _, err := svc.GetReport(ctx, "rp_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetReport(ctx, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank id, got %v", err)
	}
	if _, err := svc.ListReports(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank dataset id, got %v", err)
	}
}
