package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cbratkovics/nba-analytics/internal/domain/dataset"
	qb "github.com/cbratkovics/nba-analytics/internal/platform/querybuilder"
)

type DatasetRepository struct {
	db *sqlx.DB
}

func NewDatasetRepository(db *sqlx.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) Create(ctx context.Context, item dataset.Dataset) error {
	query, args, err := qb.InsertInto("datasets").
		Columns(
			"id", "name", "source", "status",
			"row_count", "column_count", "skipped_rows", "loaded_at",
			"rows_removed", "missing_before", "missing_after",
		).
		Values(
			item.ID, item.Name, item.Source, item.Status,
			item.RowCount, item.ColumnCount, item.SkippedRows, item.LoadedAt,
			item.RowsRemoved, item.MissingBefore, item.MissingAfter,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert dataset query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	return nil
}

func (r *DatasetRepository) GetByID(ctx context.Context, id string) (dataset.Dataset, bool, error) {
	query, args, err := qb.Select("*").From("datasets").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return dataset.Dataset{}, false, fmt.Errorf("build get dataset by id query: %w", err)
	}

	var row datasetTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return dataset.Dataset{}, false, nil
		}
		return dataset.Dataset{}, false, fmt.Errorf("get dataset by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *DatasetRepository) List(ctx context.Context) ([]dataset.Dataset, error) {
	query, args, err := qb.Select("*").From("datasets").
		OrderBy("loaded_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select datasets query: %w", err)
	}

	var rows []datasetTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select datasets: %w", err)
	}

	out := make([]dataset.Dataset, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *DatasetRepository) Update(ctx context.Context, item dataset.Dataset) error {
	query, args, err := qb.Update("datasets").
		Set("name", item.Name).
		Set("source", item.Source).
		Set("status", item.Status).
		Set("row_count", item.RowCount).
		Set("column_count", item.ColumnCount).
		Set("skipped_rows", item.SkippedRows).
		Set("cleaned_at", item.CleanedAt).
		Set("rows_removed", item.RowsRemoved).
		Set("missing_before", item.MissingBefore).
		Set("missing_after", item.MissingAfter).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update dataset query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update dataset: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update dataset: %s not found", item.ID)
	}
	return nil
}
