package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "ghostpayroll/internal/errors"
	"ghostpayroll/internal/services"
	"ghostpayroll/internal/shared/testutil"
	"ghostpayroll/pkg/contracts/domain"
)

func newAnalysisRouter(t *testing.T, svc *MockAnalysisService, batches BatchReader) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewAnalysisHandler(svc, batches, logger, apierrors.NewErrorHandler(logger, false))
	return mount(h.Routes)
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	t.Run("incomplete batch is rejected", func(t *testing.T) {
		svc := &MockAnalysisService{}
		rec := httptest.NewRecorder()
		newAnalysisRouter(t, svc, stubBatches{complete: false}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]interface{}{"error": "All required files not uploaded"}, decodeJSON(t, rec))
		svc.AssertNotCalled(t, "Analyze")
	})

	t.Run("complete batch returns the result", func(t *testing.T) {
		svc := &MockAnalysisService{}
		svc.On("Analyze").Return(&domain.AnalysisResult{
			ID:               "a1",
			Anomalies:        []domain.Anomaly{{EmpID: "E002", Type: domain.AnomalyGhostEmployee}},
			Summary:          "One ghost",
			RiskDistribution: domain.RiskDistribution{"high": 1},
			Trends:           []domain.TrendBucket{{Year: "2015", Count: 1}},
		})

		rec := httptest.NewRecorder()
		newAnalysisRouter(t, svc, stubBatches{complete: true}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, "One ghost", body["summary"])
		assert.Len(t, body["anomalies"], 1)
		assert.Equal(t, map[string]interface{}{"high": float64(1)}, body["risk_distribution"])
		svc.AssertExpectations(t)
	})
}

func TestAnalysisHandler_GetResult(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		result     *domain.AnalysisResult
		err        error
		wantStatus int
	}{
		{name: "latest", id: "latest", result: &domain.AnalysisResult{ID: "a9", Summary: "s"}, wantStatus: http.StatusOK},
		{name: "by id", id: "a1", result: &domain.AnalysisResult{ID: "a1", Summary: "s"}, wantStatus: http.StatusOK},
		{name: "missing", id: "nope", err: services.ErrResultNotFound, wantStatus: http.StatusNotFound},
		{name: "other failure", id: "boom", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockAnalysisService{}
			if tt.result != nil {
				svc.On("Result", tt.id).Return(tt.result, nil)
			} else {
				svc.On("Result", tt.id).Return(nil, tt.err)
			}

			rec := httptest.NewRecorder()
			newAnalysisRouter(t, svc, stubBatches{}).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/"+tt.id, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeJSON(t, rec)
			if tt.result != nil {
				assert.Equal(t, tt.result.ID, body["id"])
			} else {
				assert.EqualValues(t, tt.wantStatus, body["status"])
			}
			svc.AssertExpectations(t)
		})
	}
}
