package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "ghostpayroll/internal/errors"
	"ghostpayroll/internal/services"
)

// AnalysisHandler runs analyses and serves stored results
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	batches      BatchReader
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates an analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, batches BatchReader, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		batches:      batches,
		logger:       logger.With(slog.String("handler", "analysis")),
		errorHandler: errorHandler,
	}
}

// Routes mounts the analysis routes
func (h *AnalysisHandler) Routes(r chi.Router) {
	r.Post("/analyze", h.Analyze)
	r.Get("/analysis/{id}", h.GetResult)
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if !h.batches.Complete() {
		render.Render(w, r, apierrors.NewLegacyError(http.StatusBadRequest, apierrors.ErrBatchIncomplete.Message))
		return
	}

	result := h.service.Analyze(r.Context())
	h.logger.InfoContext(r.Context(), "Analysis served",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("analysis_id", result.ID),
		slog.Int("anomalies", len(result.Anomalies)))
	render.JSON(w, r, result)
}

// GetResult handles GET /api/analysis/{id}; "latest" selects the newest result
func (h *AnalysisHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Result(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.ErrAnalysisNotFound)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}
