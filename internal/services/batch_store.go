package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"ghostpayroll/internal/config"
	"ghostpayroll/internal/dataprocessing"
	"ghostpayroll/pkg/contracts/domain"
)

// BatchStore holds the process-wide current batch of uploads
type BatchStore struct {
	mu      sync.RWMutex
	batch   dataprocessing.Batch
	uploads []domain.UploadRecord
	limit   int
	now     func() time.Time
}

// NewBatchStore creates an empty store that remembers the last limit uploads
func NewBatchStore(limit int) *BatchStore {
	if limit <= 0 {
		limit = config.RecentUploadsLimit
	}
	return &BatchStore{limit: limit, now: time.Now}
}

// Put replaces the slot for kind and logs the upload
func (s *BatchStore) Put(kind domain.DatasetKind, filename string, frame *dataprocessing.Frame) domain.UploadRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batch.Set(kind, frame)
	rec := domain.UploadRecord{
		ID:        uuid.NewString(),
		Filename:  filename,
		FileType:  kind,
		Status:    "uploaded",
		CreatedAt: s.now().UTC(),
	}
	s.uploads = append(s.uploads, rec)
	if len(s.uploads) > s.limit {
		s.uploads = s.uploads[len(s.uploads)-s.limit:]
	}
	return rec
}

// Snapshot returns a deep copy of the batch and whether every slot is filled
func (s *BatchStore) Snapshot() (*dataprocessing.Batch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch.Clone(), s.batch.Complete()
}

// Complete reports whether every slot is filled
func (s *BatchStore) Complete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch.Complete()
}

// Status reports which slots are filled
func (s *BatchStore) Status() map[domain.DatasetKind]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.DatasetKind]bool, len(domain.RequiredDatasets))
	for _, kind := range domain.RequiredDatasets {
		out[kind] = s.batch.Get(kind) != nil
	}
	return out
}

// Clear empties every slot. The upload log is kept.
func (s *BatchStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = dataprocessing.Batch{}
}

// RecentUploads returns the logged uploads, newest first
func (s *BatchStore) RecentUploads() []domain.UploadRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UploadRecord, len(s.uploads))
	for i, rec := range s.uploads {
		out[len(s.uploads)-1-i] = rec
	}
	return out
}
