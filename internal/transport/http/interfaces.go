package http

import (
	"context"
	"io"

	"ghostpayroll/pkg/contracts/domain"
)

// UploadServiceInterface stores one parsed dataset upload
type UploadServiceInterface interface {
	Upload(ctx context.Context, kind domain.DatasetKind, filename string, r io.Reader) (domain.UploadRecord, error)
}

// AnalysisServiceInterface runs and retrieves analyses
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context) *domain.AnalysisResult
	Result(id string) (*domain.AnalysisResult, error)
}

// BatchReader exposes the state of the current batch
type BatchReader interface {
	Complete() bool
	RecentUploads() []domain.UploadRecord
}
