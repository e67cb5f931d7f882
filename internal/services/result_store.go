package services

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"ghostpayroll/pkg/contracts/domain"
)

// ResultStore keeps the most recent analysis results by ID
type ResultStore struct {
	mu     sync.RWMutex
	cache  *lru.Cache[string, *domain.AnalysisResult]
	latest *domain.AnalysisResult
}

// NewResultStore creates a store holding at most size results
func NewResultStore(size int) (*ResultStore, error) {
	cache, err := lru.New[string, *domain.AnalysisResult](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &ResultStore{cache: cache}, nil
}

// Put stores r and makes it the latest result
func (s *ResultStore) Put(r *domain.AnalysisResult) {
	if r == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID != "" {
		s.cache.Add(r.ID, r)
	}
	s.latest = r
}

// Get returns the result with the given ID
func (s *ResultStore) Get(id string) (*domain.AnalysisResult, bool) {
	return s.cache.Get(id)
}

// Latest returns the most recently stored result
func (s *ResultStore) Latest() (*domain.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

// Len returns the number of results held by ID
func (s *ResultStore) Len() int { return s.cache.Len() }
