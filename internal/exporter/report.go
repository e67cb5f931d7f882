package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "ghostpayroll/internal/errors"
	"ghostpayroll/pkg/contracts/domain"
)

// ReportExporter renders analysis results as downloadable reports
type ReportExporter struct {
	logger *slog.Logger
}

// NewReportExporter creates a new report exporter
func NewReportExporter(logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{logger: logger.With(slog.String("component", "report_exporter"))}
}

// Export writes r to w in the given format
func (e *ReportExporter) Export(ctx context.Context, w io.Writer, r *domain.AnalysisResult, format Format) error {
	var err error
	switch format {
	case FormatCSV:
		err = WriteAnomaliesCSV(w, r, CSVOptions{BOMPrefix: true})
	case FormatXLSX:
		err = WriteReportXLSX(w, r)
	default:
		return apperrors.NewAppValidationError(fmt.Sprintf("unsupported report format %q", format))
	}
	if err != nil {
		return apperrors.NewUnexpectedError("failed to render report", err).WithContext("format", string(format))
	}

	e.logger.InfoContext(ctx, "Report exported",
		slog.String("analysis_id", r.ID),
		slog.String("format", string(format)),
		slog.Int("anomalies", len(r.Anomalies)))
	return nil
}

// ExportFile writes r to path, choosing the format from its extension
func (e *ReportExporter) ExportFile(ctx context.Context, path string, r *domain.AnalysisResult) error {
	format, err := FormatForPath(path)
	if err != nil {
		return apperrors.NewAppValidationError(err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewStorageError("failed to create report directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create report file", err)
	}

	if err := e.Export(ctx, file, r, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError("failed to close report file", err)
	}
	return nil
}

// Filename is the download name for r in the given format
func Filename(r *domain.AnalysisResult, format Format) string {
	id := r.ID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		id = "latest"
	}
	return fmt.Sprintf("ghost-payroll-report-%s.%s", id, format)
}
