package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/cbratkovics/nba-analytics/internal/config"
	"github.com/cbratkovics/nba-analytics/internal/domain/analysis"
	"github.com/cbratkovics/nba-analytics/internal/domain/dataset"
	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
	"github.com/cbratkovics/nba-analytics/internal/infrastructure/datasource/csvfile"
	"github.com/cbratkovics/nba-analytics/internal/infrastructure/datasource/remote"
	"github.com/cbratkovics/nba-analytics/internal/infrastructure/repository/memory"
	"github.com/cbratkovics/nba-analytics/internal/infrastructure/repository/postgres"
	"github.com/cbratkovics/nba-analytics/internal/interfaces/httpapi"
	"github.com/cbratkovics/nba-analytics/internal/platform/cache"
	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
	"github.com/cbratkovics/nba-analytics/internal/platform/resilience"
	"github.com/cbratkovics/nba-analytics/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	datasetRepo, gameRepo, analysisRepo, err := newRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	fetcher := remote.NewFetcher(remote.FetcherConfig{
		Timeout:    cfg.FetchTimeout,
		MaxRetries: cfg.FetchMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FetchCircuitEnabled,
			FailureThreshold: cfg.FetchCircuitFailureCount,
			OpenTimeout:      cfg.FetchCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FetchCircuitHalfOpenMax,
		},
	})

	reportSvc := usecase.NewReportService(analysisRepo, logger)
	ingestionSvc := usecase.NewIngestionService(
		datasetRepo,
		gameRepo,
		csvfile.Loader{},
		fetcher,
		cfg.IngestBatchSize,
		cfg.IngestWorkers,
		logger,
	)
	cleaningSvc := usecase.NewCleaningService(
		datasetRepo,
		gameRepo,
		reportSvc,
		store,
		cleaningOptionsFromConfig(cfg),
		logger,
	)
	edaSvc := usecase.NewEDAService(datasetRepo, gameRepo, reportSvc, store, cfg.AnalysisWorkers, logger)
	hypothesisSvc := usecase.NewHypothesisService(
		datasetRepo,
		gameRepo,
		reportSvc,
		cfg.Alpha,
		cfg.AnalysisWorkers,
		logger,
	)

	handler := httpapi.NewHandler(ingestionSvc, cleaningSvc, edaSvc, hypothesisSvc, reportSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// newRepositories connects to Postgres when DB_URL is set and falls
// back to in-memory repositories when it is empty. The in-memory mode
// exists for local exploration without a database.
func newRepositories(cfg config.Config, logger *logging.Logger) (dataset.Repository, playergame.Repository, analysis.Repository, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		return memory.NewDatasetRepository(nil), memory.NewPlayerGameRepository(), memory.NewAnalysisRepository(), nil
	}

	db, err := newDB(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("connected to postgres", "db_name", dbNameFromURL(cfg.DBURL))

	return postgres.NewDatasetRepository(db), postgres.NewPlayerGameRepository(db), postgres.NewAnalysisRepository(db), nil
}

func newDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func cleaningOptionsFromConfig(cfg config.Config) usecase.CleaningOptions {
	return usecase.CleaningOptions{
		MaxMinutes:      cfg.MaxMinutes,
		MaxPoints:       cfg.MaxPoints,
		MaxRebounds:     cfg.MaxRebounds,
		MaxAssists:      cfg.MaxAssists,
		OutlierMethod:   cfg.OutlierMethod,
		OutlierLimit:    cfg.OutlierLimit,
		OutlierAction:   cfg.OutlierAction,
		DefaultRestDays: int(cfg.DefaultRestDays),
	}
}
