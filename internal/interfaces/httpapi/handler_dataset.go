package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/cbratkovics/nba-analytics/internal/domain/dataset"
	"github.com/cbratkovics/nba-analytics/internal/usecase"
)

type ingestDatasetRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Path string `json:"path" validate:"omitempty,max=500"`
	URL  string `json:"url" validate:"omitempty,url,max=500"`
}

type datasetDTO struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Source        string     `json:"source"`
	Status        string     `json:"status"`
	RowCount      int        `json:"row_count"`
	ColumnCount   int        `json:"column_count"`
	SkippedRows   int        `json:"skipped_rows"`
	LoadedAt      time.Time  `json:"loaded_at"`
	CleanedAt     *time.Time `json:"cleaned_at,omitempty"`
	RowsRemoved   int        `json:"rows_removed,omitempty"`
	MissingBefore int        `json:"missing_before,omitempty"`
	MissingAfter  int        `json:"missing_after,omitempty"`
}

func datasetToDTO(item dataset.Dataset) datasetDTO {
	return datasetDTO{
		ID:            item.ID,
		Name:          item.Name,
		Source:        item.Source,
		Status:        item.Status,
		RowCount:      item.RowCount,
		ColumnCount:   item.ColumnCount,
		SkippedRows:   item.SkippedRows,
		LoadedAt:      item.LoadedAt,
		CleanedAt:     item.CleanedAt,
		RowsRemoved:   item.RowsRemoved,
		MissingBefore: item.MissingBefore,
		MissingAfter:  item.MissingAfter,
	}
}

func (h *Handler) IngestDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestDataset")
	defer span.End()

	var req ingestDatasetRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.ingestionService.Ingest(ctx, usecase.IngestInput{
		Name: req.Name,
		Path: req.Path,
		URL:  req.URL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "ingest dataset failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, datasetToDTO(item))
}

func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDatasets")
	defer span.End()

	items, err := h.ingestionService.ListDatasets(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list datasets failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]datasetDTO, 0, len(items))
	for _, item := range items {
		out = append(out, datasetToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDataset")
	defer span.End()

	datasetID := strings.TrimSpace(r.PathValue("datasetID"))
	item, err := h.ingestionService.GetDataset(ctx, datasetID)
	if err != nil {
		h.logger.WarnContext(ctx, "get dataset failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, datasetToDTO(item))
}
