package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/cbratkovics/nba-analytics/internal/domain/analysis"
	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
	"github.com/cbratkovics/nba-analytics/internal/report"
)

// ReportService renders and persists analysis artifacts.
type ReportService struct {
	analysisRepo analysis.Repository
	logger       *logging.Logger
}

func NewReportService(analysisRepo analysis.Repository, logger *logging.Logger) *ReportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReportService{
		analysisRepo: analysisRepo,
		logger:       logger,
	}
}

func (s *ReportService) SaveEDA(ctx context.Context, summary analysis.EDASummary) (analysis.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.SaveEDA")
	defer span.End()

	return s.save(ctx, summary.DatasetID, analysis.KindEDA, report.RenderEDA(summary), summary, summary.GeneratedAt)
}

func (s *ReportService) SaveHypothesis(ctx context.Context, summary analysis.HypothesisSummary) (analysis.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.SaveHypothesis")
	defer span.End()

	return s.save(ctx, summary.DatasetID, analysis.KindHypothesis, report.RenderHypothesis(summary), summary, summary.GeneratedAt)
}

func (s *ReportService) SaveCleaning(ctx context.Context, cleaning analysis.CleaningReport) (analysis.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.SaveCleaning")
	defer span.End()

	return s.save(ctx, cleaning.DatasetID, analysis.KindCleaning, report.RenderCleaning(cleaning), cleaning, cleaning.GeneratedAt)
}

func (s *ReportService) save(ctx context.Context, datasetID, kind, text string, payload any, generatedAt time.Time) (analysis.Report, error) {
	datasetID = strings.TrimSpace(datasetID)
	if datasetID == "" {
		return analysis.Report{}, fmt.Errorf("%w: dataset id is required", ErrInvalidInput)
	}
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	raw, err := sonic.Marshal(payload)
	if err != nil {
		return analysis.Report{}, fmt.Errorf("encode report payload: %w", err)
	}

	item := analysis.Report{
		ID:          newReportID(datasetID, kind, generatedAt),
		DatasetID:   datasetID,
		Kind:        kind,
		Text:        text,
		Payload:     raw,
		GeneratedAt: generatedAt,
	}
	if err := s.analysisRepo.Save(ctx, item); err != nil {
		return analysis.Report{}, fmt.Errorf("save report: %w", err)
	}

	s.logger.InfoContext(ctx, "report saved", "report_id", item.ID, "dataset_id", datasetID, "kind", kind)
	return item, nil
}

func (s *ReportService) GetReport(ctx context.Context, id string) (analysis.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.GetReport")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return analysis.Report{}, fmt.Errorf("%w: report id is required", ErrInvalidInput)
	}

	item, found, err := s.analysisRepo.GetByID(ctx, id)
	if err != nil {
		return analysis.Report{}, fmt.Errorf("get report: %w", err)
	}
	if !found {
		return analysis.Report{}, fmt.Errorf("%w: report %s", ErrNotFound, id)
	}
	return item, nil
}

func (s *ReportService) ListReports(ctx context.Context, datasetID string) ([]analysis.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.ListReports")
	defer span.End()

	datasetID = strings.TrimSpace(datasetID)
	if datasetID == "" {
		return nil, fmt.Errorf("%w: dataset id is required", ErrInvalidInput)
	}

	items, err := s.analysisRepo.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return items, nil
}

func newReportID(datasetID, kind string, at time.Time) string {
	sum := sha256.Sum256([]byte(datasetID + "|" + kind + "|" + at.Format(time.RFC3339Nano)))
	return "rp_" + hex.EncodeToString(sum[:8])
}
