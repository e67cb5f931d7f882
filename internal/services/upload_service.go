package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"ghostpayroll/internal/dataprocessing"
	apperrors "ghostpayroll/internal/errors"
	"ghostpayroll/internal/infrastructure"
	"ghostpayroll/pkg/contracts/domain"
	"ghostpayroll/pkg/contracts/events"
)

// UploadService parses dataset uploads into the batch store
type UploadService struct {
	batches *BatchStore
	logger  *slog.Logger
	metrics *infrastructure.AnalysisMetrics
	events  EventPublisher
}

// NewUploadService creates an UploadService
func NewUploadService(batches *BatchStore, logger *slog.Logger, metrics *infrastructure.AnalysisMetrics) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{
		batches: batches,
		logger:  logger.With(slog.String("component", "upload_service")),
		metrics: metrics,
		events:  noopPublisher{},
	}
}

// WithEvents publishes accepted uploads to p
func (s *UploadService) WithEvents(p EventPublisher) *UploadService {
	if p != nil {
		s.events = p
	}
	return s
}

// Upload parses r eagerly and stores it in the slot for kind
func (s *UploadService) Upload(ctx context.Context, kind domain.DatasetKind, filename string, r io.Reader) (domain.UploadRecord, error) {
	if !kind.Valid() {
		return domain.UploadRecord{}, apperrors.NewAppValidationError("Invalid file type").
			WithContext("file_type", string(kind))
	}

	frame, err := dataprocessing.LoadAuto(string(kind), filename, r)
	if err != nil {
		s.logger.WarnContext(ctx, "Upload could not be parsed",
			slog.String("file_type", string(kind)),
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		return domain.UploadRecord{}, err
	}

	rec := s.batches.Put(kind, filename, frame)
	s.metrics.RecordUpload(ctx, string(kind))
	s.logger.InfoContext(ctx, "Dataset uploaded",
		slog.String("upload_id", rec.ID),
		slog.String("file_type", string(kind)),
		slog.String("filename", filename),
		slog.Int("rows", frame.Len()),
		slog.Int("columns", len(frame.Columns())))
	s.events.Publish(ctx, events.MessageTypeUploadAccepted, events.UploadAccepted{
		Upload:        rec,
		Rows:          frame.Len(),
		BatchComplete: s.batches.Complete(),
	})
	return rec, nil
}

// LoadFile uploads a dataset from disk
func (s *UploadService) LoadFile(ctx context.Context, kind domain.DatasetKind, path string) (domain.UploadRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.UploadRecord{}, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()
	return s.Upload(ctx, kind, filepath.Base(path), f)
}
