package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "ghostpayroll/internal/errors"
	"ghostpayroll/internal/exporter"
	"ghostpayroll/internal/services"
	"ghostpayroll/internal/shared/testutil"
	"ghostpayroll/pkg/contracts/domain"
)

func newReportRouter(t *testing.T, svc *MockAnalysisService) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewReportHandler(svc, exporter.NewReportExporter(logger), logger, apierrors.NewErrorHandler(logger, false))
	return mount(h.Routes)
}

func reportResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ID:               "a1b2c3d4e5",
		Anomalies:        []domain.Anomaly{{EmpID: "E002", Type: domain.AnomalyGhostEmployee, RiskLevel: domain.RiskHigh}},
		Summary:          "One ghost",
		RiskDistribution: domain.RiskDistribution{"high": 1},
		Trends:           []domain.TrendBucket{{Year: "2015", Count: 1}},
	}
}

func TestReportHandler_Report(t *testing.T) {
	tests := []struct {
		name            string
		url             string
		wantStatus      int
		wantContentType string
		wantFilename    string
	}{
		{name: "csv", url: "/api/analysis/a1b2c3d4e5/report?format=csv", wantStatus: http.StatusOK,
			wantContentType: "text/csv; charset=utf-8", wantFilename: "ghost-payroll-report-a1b2c3d4.csv"},
		{name: "xlsx by default", url: "/api/analysis/a1b2c3d4e5/report", wantStatus: http.StatusOK,
			wantContentType: exporter.FormatXLSX.ContentType(), wantFilename: "ghost-payroll-report-a1b2c3d4.xlsx"},
		{name: "unsupported format", url: "/api/analysis/a1b2c3d4e5/report?format=pdf", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockAnalysisService{}
			svc.On("Result", "a1b2c3d4e5").Return(reportResult(), nil)

			rec := httptest.NewRecorder()
			newReportRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				svc.AssertNotCalled(t, "Result", "a1b2c3d4e5")
				return
			}
			assert.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Content-Disposition"), tt.wantFilename)
			assert.Positive(t, rec.Body.Len())
		})
	}
}

func TestReportHandler_ReportNotFound(t *testing.T) {
	svc := &MockAnalysisService{}
	svc.On("Result", "nope").Return(nil, services.ErrResultNotFound)

	rec := httptest.NewRecorder()
	newReportRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/nope/report?format=csv", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportHandler_DownloadLatest(t *testing.T) {
	t.Run("no analysis yet", func(t *testing.T) {
		svc := &MockAnalysisService{}
		svc.On("Result", "latest").Return(nil, services.ErrResultNotFound)

		rec := httptest.NewRecorder()
		newReportRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download-report", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]interface{}{"error": "No analysis data available"}, decodeJSON(t, rec))
	})

	t.Run("latest result as workbook", func(t *testing.T) {
		svc := &MockAnalysisService{}
		svc.On("Result", "latest").Return(reportResult(), nil)

		rec := httptest.NewRecorder()
		newReportRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download-report", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(exporter.SheetAnomalies)
		require.NoError(t, err)
		assert.Equal(t, "E002", rows[1][0])
	})
}
