package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ghostpayroll/pkg/contracts/domain"
)

// MockUploadService is a mock implementation of UploadServiceInterface
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, kind domain.DatasetKind, filename string, r io.Reader) (domain.UploadRecord, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(kind, filename, string(body))
	return args.Get(0).(domain.UploadRecord), args.Error(1)
}

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context) *domain.AnalysisResult {
	args := m.Called()
	return args.Get(0).(*domain.AnalysisResult)
}

func (m *MockAnalysisService) Result(id string) (*domain.AnalysisResult, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

type stubBatches struct {
	complete bool
	uploads  []domain.UploadRecord
}

func (s stubBatches) Complete() bool                       { return s.complete }
func (s stubBatches) RecentUploads() []domain.UploadRecord { return s.uploads }

// mount serves routes under /api the way the application router does
func mount(routes func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", routes)
	return r
}

// multipartBody builds a form with a single file part
func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
