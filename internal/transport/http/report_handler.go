package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ghostpayroll/internal/errors"
	"ghostpayroll/internal/exporter"
	"ghostpayroll/internal/services"
	"ghostpayroll/pkg/contracts/domain"
)

// ReportExporter renders a result in a download format
type ReportExporter interface {
	Export(ctx context.Context, w io.Writer, r *domain.AnalysisResult, format exporter.Format) error
}

// ReportHandler serves analysis results as file downloads
type ReportHandler struct {
	service      AnalysisServiceInterface
	exporter     ReportExporter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a report handler
func NewReportHandler(service AnalysisServiceInterface, exp ReportExporter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		exporter:     exp,
		logger:       logger.With(slog.String("handler", "report")),
		errorHandler: errorHandler,
	}
}

// Routes mounts the report routes
func (h *ReportHandler) Routes(r chi.Router) {
	r.Get("/analysis/{id}/report", h.Report)
	r.Get("/download-report", h.DownloadLatest)
}

// Report handles GET /api/analysis/{id}/report?format=csv|xlsx
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewAppValidationError(err.Error()))
		return
	}

	result, err := h.service.Result(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.ErrAnalysisNotFound)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.write(w, r, result, format)
}

// DownloadLatest handles GET /api/download-report, the newest result as XLSX
func (h *ReportHandler) DownloadLatest(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Result("latest")
	if err != nil {
		render.Render(w, r, apierrors.NewLegacyError(http.StatusBadRequest, apierrors.ErrAnalysisNotFound.Message))
		return
	}
	h.write(w, r, result, exporter.FormatXLSX)
}

func (h *ReportHandler) write(w http.ResponseWriter, r *http.Request, result *domain.AnalysisResult, format exporter.Format) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", exporter.ContentDisposition(exporter.Filename(result, format)))
	if err := h.exporter.Export(r.Context(), w, result, format); err != nil {
		// headers are gone once the body has started; log only
		h.logger.ErrorContext(r.Context(), "Report export failed",
			slog.String("analysis_id", result.ID),
			slog.String("error", err.Error()))
	}
}
