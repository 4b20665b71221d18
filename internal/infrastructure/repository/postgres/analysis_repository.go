package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cbratkovics/nba-analytics/internal/domain/analysis"
	qb "github.com/cbratkovics/nba-analytics/internal/platform/querybuilder"
)

type analysisReportTableModel struct {
	ID          string    `db:"id"`
	DatasetID   string    `db:"dataset_id"`
	Kind        string    `db:"kind"`
	ReportText  string    `db:"report_text"`
	Payload     []byte    `db:"payload"`
	GeneratedAt time.Time `db:"generated_at"`
}

func (m analysisReportTableModel) toDomain() analysis.Report {
	return analysis.Report{
		ID:          m.ID,
		DatasetID:   m.DatasetID,
		Kind:        m.Kind,
		Text:        m.ReportText,
		Payload:     m.Payload,
		GeneratedAt: m.GeneratedAt,
	}
}

type AnalysisRepository struct {
	db *sqlx.DB
}

func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Save(ctx context.Context, report analysis.Report) error {
	query, args, err := qb.InsertInto("analysis_reports").
		Columns("id", "dataset_id", "kind", "report_text", "payload", "generated_at").
		Values(report.ID, report.DatasetID, report.Kind, report.Text, report.Payload, report.GeneratedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			report_text = EXCLUDED.report_text,
			payload = EXCLUDED.payload,
			generated_at = EXCLUDED.generated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert report query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (analysis.Report, bool, error) {
	query, args, err := qb.Select("*").From("analysis_reports").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return analysis.Report{}, false, fmt.Errorf("build get report by id query: %w", err)
	}

	var row analysisReportTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return analysis.Report{}, false, nil
		}
		return analysis.Report{}, false, fmt.Errorf("get report by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *AnalysisRepository) ListByDataset(ctx context.Context, datasetID string) ([]analysis.Report, error) {
	query, args, err := qb.Select("*").From("analysis_reports").
		Where(qb.Eq("dataset_id", datasetID)).
		OrderBy("generated_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select reports query: %w", err)
	}

	var rows []analysisReportTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select reports: %w", err)
	}

	out := make([]analysis.Report, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
