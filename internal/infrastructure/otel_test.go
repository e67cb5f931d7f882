package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestOTelInitialization(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	var traces bytes.Buffer
	cfg := DefaultOTelConfig("test")
	cfg.TraceExporter = "stdout"
	cfg.TraceWriter = &traces

	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, span := providers.Tracer.Start(context.Background(), "analysis")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	RecordError(ctx, errors.New("boom"))
	span.End()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(shutdownCtx))
	assert.Contains(t, traces.String(), "analysis")
}

func TestOTelInitialization_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := &OTelConfig{ServiceName: ServiceName, TraceExporter: "none", MetricExporter: "none"}

	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)
	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Tracer)
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger"}, logger)
	assert.ErrorContains(t, err, "unsupported trace exporter")

	_, err = InitializeOTel(&OTelConfig{MetricExporter: "statsd"}, logger)
	assert.ErrorContains(t, err, "unsupported metric exporter")
}

func TestAnalysisMetrics_ExposedOnPrometheus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	providers, err := InitializeOTel(&OTelConfig{ServiceName: ServiceName, MetricExporter: "prometheus"}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateAnalysisMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordAnalysis(ctx, "ok", 3, 12)
	metrics.RecordReasoning(ctx, "Gemini", 2*time.Second, 500*time.Millisecond, true)
	metrics.RecordUpload(ctx, "salary")
	metrics.RecordUnparsedTemporal(ctx, "attendance", 2)

	w := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	assert.Contains(t, body, "analyses_total")
	assert.Contains(t, body, "anomalies_detected_total")
	assert.Contains(t, body, "reasoning_wait_seconds")
	assert.Contains(t, body, "dataset_uploads_total")
}

func TestAnalysisMetrics_NilSafe(t *testing.T) {
	var m *AnalysisMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordAnalysis(ctx, "ok", 1, 1)
		m.RecordReasoning(ctx, "Fake", 0, 0, true)
		m.RecordUpload(ctx, "wifi")
		m.RecordUnparsedTemporal(ctx, "wifi", 1)
	})

	noopMetrics, err := CreateAnalysisMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	assert.NotNil(t, noopMetrics.AnalysesTotal)
}
