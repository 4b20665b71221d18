package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
	"github.com/cbratkovics/nba-analytics/internal/usecase"
)

type Handler struct {
	ingestionService  *usecase.IngestionService
	cleaningService   *usecase.CleaningService
	edaService        *usecase.EDAService
	hypothesisService *usecase.HypothesisService
	reportService     *usecase.ReportService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	ingestionService *usecase.IngestionService,
	cleaningService *usecase.CleaningService,
	edaService *usecase.EDAService,
	hypothesisService *usecase.HypothesisService,
	reportService *usecase.ReportService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ingestionService:  ingestionService,
		cleaningService:   cleaningService,
		edaService:        edaService,
		hypothesisService: hypothesisService,
		reportService:     reportService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
