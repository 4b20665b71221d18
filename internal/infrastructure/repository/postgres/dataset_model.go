package postgres

import (
	"time"

	"github.com/cbratkovics/nba-analytics/internal/domain/dataset"
)

type datasetTableModel struct {
	ID            string     `db:"id"`
	Name          string     `db:"name"`
	Source        string     `db:"source"`
	Status        string     `db:"status"`
	RowCount      int        `db:"row_count"`
	ColumnCount   int        `db:"column_count"`
	SkippedRows   int        `db:"skipped_rows"`
	LoadedAt      time.Time  `db:"loaded_at"`
	CleanedAt     *time.Time `db:"cleaned_at"`
	RowsRemoved   int        `db:"rows_removed"`
	MissingBefore int        `db:"missing_before"`
	MissingAfter  int        `db:"missing_after"`
}

func (m datasetTableModel) toDomain() dataset.Dataset {
	return dataset.Dataset{
		ID:            m.ID,
		Name:          m.Name,
		Source:        m.Source,
		Status:        m.Status,
		RowCount:      m.RowCount,
		ColumnCount:   m.ColumnCount,
		SkippedRows:   m.SkippedRows,
		LoadedAt:      m.LoadedAt,
		CleanedAt:     m.CleanedAt,
		RowsRemoved:   m.RowsRemoved,
		MissingBefore: m.MissingBefore,
		MissingAfter:  m.MissingAfter,
	}
}
