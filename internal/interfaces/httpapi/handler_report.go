package httpapi

import (
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/cbratkovics/nba-analytics/internal/domain/analysis"
)

type reportDTO struct {
	ID          string    `json:"id"`
	DatasetID   string    `json:"dataset_id"`
	Kind        string    `json:"kind"`
	Payload     any       `json:"payload,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

func reportToDTO(item analysis.Report, includePayload bool) reportDTO {
	out := reportDTO{
		ID:          item.ID,
		DatasetID:   item.DatasetID,
		Kind:        item.Kind,
		GeneratedAt: item.GeneratedAt,
	}
	if includePayload && len(item.Payload) > 0 {
		var payload any
		if err := sonic.Unmarshal(item.Payload, &payload); err == nil {
			out.Payload = payload
		}
	}
	return out
}

func (h *Handler) ListReportsByDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListReportsByDataset")
	defer span.End()

	datasetID := strings.TrimSpace(r.PathValue("datasetID"))
	items, err := h.reportService.ListReports(ctx, datasetID)
	if err != nil {
		h.logger.WarnContext(ctx, "list reports failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]reportDTO, 0, len(items))
	for _, item := range items {
		out = append(out, reportToDTO(item, false))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetReport")
	defer span.End()

	reportID := strings.TrimSpace(r.PathValue("reportID"))
	item, err := h.reportService.GetReport(ctx, reportID)
	if err != nil {
		h.logger.WarnContext(ctx, "get report failed", "report_id", reportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(item, true))
}

// GetReportText serves the rendered plain-text report as-is.
func (h *Handler) GetReportText(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetReportText")
	defer span.End()

	reportID := strings.TrimSpace(r.PathValue("reportID"))
	item, err := h.reportService.GetReport(ctx, reportID)
	if err != nil {
		h.logger.WarnContext(ctx, "get report text failed", "report_id", reportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(item.Text))
}
