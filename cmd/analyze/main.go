package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cbratkovics/nba-analytics/internal/infrastructure/datasource/csvfile"
	"github.com/cbratkovics/nba-analytics/internal/infrastructure/repository/memory"
	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
	"github.com/cbratkovics/nba-analytics/internal/report"
	"github.com/cbratkovics/nba-analytics/internal/usecase"
)

func main() {
	var (
		input    = flag.String("input", "", "path to the player-game CSV file (required)")
		name     = flag.String("name", "", "dataset name (defaults to the input file name)")
		output   = flag.String("output", "reports", "directory for generated report files")
		level    = flag.String("level", usecase.CleaningLevelStandard, "cleaning level: minimal, standard or aggressive")
		alpha    = flag.Float64("alpha", 0.05, "significance level for hypothesis tests")
		workers  = flag.Int("workers", 4, "worker pool size for analysis")
		logLevel = flag.String("log-level", "info", "log level: debug, info, warn or error")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	parsedLevel, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.NewConsole(parsedLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), *input, *name, *output, *level, *alpha, *workers, logger); err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, input, name, output, level string, alpha float64, workers int, logger *logging.Logger) error {
	if name == "" {
		name = filepath.Base(input)
	}

	opts, err := usecase.CleaningOptionsForLevel(level, usecase.DefaultCleaningOptions())
	if err != nil {
		return err
	}

	datasetRepo := memory.NewDatasetRepository(nil)
	gameRepo := memory.NewPlayerGameRepository()
	analysisRepo := memory.NewAnalysisRepository()

	reportSvc := usecase.NewReportService(analysisRepo, logger)
	ingestionSvc := usecase.NewIngestionService(datasetRepo, gameRepo, csvfile.Loader{}, nil, 1000, workers, logger)
	cleaningSvc := usecase.NewCleaningService(datasetRepo, gameRepo, reportSvc, nil, opts, logger)
	edaSvc := usecase.NewEDAService(datasetRepo, gameRepo, reportSvc, nil, workers, logger)
	hypothesisSvc := usecase.NewHypothesisService(datasetRepo, gameRepo, reportSvc, alpha, workers, logger)

	ds, err := ingestionSvc.Ingest(ctx, usecase.IngestInput{Name: name, Path: input})
	if err != nil {
		return fmt.Errorf("ingest %s: %w", input, err)
	}
	logger.Info("dataset loaded",
		"dataset_id", ds.ID,
		"rows", ds.RowCount,
		"columns", ds.ColumnCount,
		"skipped_rows", ds.SkippedRows,
	)

	cleaning, err := cleaningSvc.Clean(ctx, ds.ID)
	if err != nil {
		return fmt.Errorf("clean dataset: %w", err)
	}
	logger.Info("dataset cleaned",
		"rows_removed", cleaning.RowsRemoved,
		"missing_before", cleaning.MissingBefore,
		"missing_after", cleaning.MissingAfter,
	)

	summary, err := edaSvc.Summarize(ctx, ds.ID)
	if err != nil {
		return fmt.Errorf("summarize dataset: %w", err)
	}

	hypotheses, err := hypothesisSvc.RunSuite(ctx, ds.ID, alpha)
	if err != nil {
		return fmt.Errorf("run hypothesis suite: %w", err)
	}

	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := map[string]string{
		"cleaning_report.txt":   report.RenderCleaning(cleaning),
		"eda_report.txt":        report.RenderEDA(summary),
		"hypothesis_report.txt": report.RenderHypothesis(hypotheses),
	}
	for fileName, text := range files {
		path := filepath.Join(output, fileName)
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("report written", "path", path)
	}

	return nil
}
