package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/cbratkovics/nba-analytics/internal/usecase"
)

type runHypothesesRequest struct {
	Alpha     float64 `json:"alpha" validate:"omitempty,gt=0,lt=1"`
	Metric    string  `json:"metric" validate:"omitempty,max=30"`
	Grouping  string  `json:"grouping" validate:"omitempty,max=30"`
	PositionA string  `json:"position_a" validate:"omitempty,max=30"`
	PositionB string  `json:"position_b" validate:"omitempty,max=30"`
}

func (h *Handler) CleanDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CleanDataset")
	defer span.End()

	datasetID := strings.TrimSpace(r.PathValue("datasetID"))
	report, err := h.cleaningService.Clean(ctx, datasetID)
	if err != nil {
		h.logger.WarnContext(ctx, "clean dataset failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) GetEDASummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEDASummary")
	defer span.End()

	datasetID := strings.TrimSpace(r.PathValue("datasetID"))
	summary, err := h.edaService.Summarize(ctx, datasetID)
	if err != nil {
		h.logger.WarnContext(ctx, "eda summary failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

// RunHypotheses runs the built-in suite when the body has no metric,
// otherwise a single comparison. A missing body means suite defaults.
func (h *Handler) RunHypotheses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunHypotheses")
	defer span.End()

	datasetID := strings.TrimSpace(r.PathValue("datasetID"))

	var req runHypothesesRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && err != io.EOF {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if req.Metric == "" {
		summary, err := h.hypothesisService.RunSuite(ctx, datasetID, req.Alpha)
		if err != nil {
			h.logger.WarnContext(ctx, "hypothesis suite failed", "dataset_id", datasetID, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, summary)
		return
	}

	result, err := h.hypothesisService.RunTest(ctx, datasetID, usecase.HypothesisInput{
		Metric:    req.Metric,
		Grouping:  req.Grouping,
		PositionA: req.PositionA,
		PositionB: req.PositionB,
		Alpha:     req.Alpha,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "hypothesis test failed",
			"dataset_id", datasetID,
			"metric", req.Metric,
			"grouping", req.Grouping,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}
