package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName = "ghost-payroll-detector"
	MeterName   = "ghostpayroll"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "none"
	MetricExporter string // "prometheus", "none"
	SampleRatio    float64
	// TraceWriter receives stdout-exported spans; defaults to os.Stderr
	TraceWriter io.Writer
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// DefaultOTelConfig returns the configuration used by the web server
func DefaultOTelConfig(version string) *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	traces := os.Getenv("GHOSTPAYROLL_TRACE_EXPORTER")
	if traces == "" {
		traces = "none"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: version,
		Environment:    env,
		TraceExporter:  traces,
		MetricExporter: "prometheus",
		SampleRatio:    1.0,
		TraceWriter:    os.Stderr,
	}
}

// InitializeOTel sets up tracing and metrics and installs them globally
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig("dev")
	}

	ctx := context.Background()
	providers := &OTelProviders{
		Logger: logger.With(slog.String("component", "otel")),
		Tracer: otel.Tracer(MeterName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	providers.Logger.InfoContext(ctx, "OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return providers, nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		w := cfg.TraceWriter
		if w == nil {
			w = os.Stderr
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)
	return nil
}

// initializeMetrics sets up OpenTelemetry metrics
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := prometheus.New()
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)

		providers.PrometheusHTTP = promhttp.Handler()
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
		otel.SetMeterProvider(mp)
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}
	return nil
}

// AnalysisMetrics holds the service's instruments. A nil *AnalysisMetrics is
// valid and records nothing.
type AnalysisMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	AnalysesTotal          metric.Int64Counter
	AnomaliesDetected      metric.Int64Counter
	ReasoningWait          metric.Float64Histogram
	ReasoningCallDuration  metric.Float64Histogram
	ReconciledRows         metric.Int64Histogram
	UploadsTotal           metric.Int64Counter
	UnparsedTemporalValues metric.Int64Counter
}

// CreateAnalysisMetrics creates the application metrics on meter
func CreateAnalysisMetrics(meter metric.Meter) (*AnalysisMetrics, error) {
	m := &AnalysisMetrics{}
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"))
	collect(err)
	m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"), metric.WithUnit("s"))
	collect(err)
	m.HTTPActiveRequests, err = meter.Int64UpDownCounter("http_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"))
	collect(err)
	m.AnalysesTotal, err = meter.Int64Counter("analyses_total",
		metric.WithDescription("Analysis passes by outcome"))
	collect(err)
	m.AnomaliesDetected, err = meter.Int64Counter("anomalies_detected_total",
		metric.WithDescription("Anomalies returned by the reasoning service"))
	collect(err)
	m.ReasoningWait, err = meter.Float64Histogram("reasoning_wait_seconds",
		metric.WithDescription("Time spent waiting for the reasoning pacing slot"), metric.WithUnit("s"))
	collect(err)
	m.ReasoningCallDuration, err = meter.Float64Histogram("reasoning_call_duration_seconds",
		metric.WithDescription("Reasoning service call latency"), metric.WithUnit("s"))
	collect(err)
	m.ReconciledRows, err = meter.Int64Histogram("reconciled_rows",
		metric.WithDescription("Rows in the reconciled frame per analysis"))
	collect(err)
	m.UploadsTotal, err = meter.Int64Counter("dataset_uploads_total",
		metric.WithDescription("Accepted dataset uploads by kind"))
	collect(err)
	m.UnparsedTemporalValues, err = meter.Int64Counter("temporal_values_unparsed_total",
		metric.WithDescription("Date/time cells that failed every layout"))
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

// RecordAnalysis records one finished analysis pass
func (m *AnalysisMetrics) RecordAnalysis(ctx context.Context, outcome string, anomalies, rows int) {
	if m == nil {
		return
	}
	m.AnalysesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if anomalies > 0 {
		m.AnomaliesDetected.Add(ctx, int64(anomalies))
	}
	if rows >= 0 {
		m.ReconciledRows.Record(ctx, int64(rows))
	}
}

// RecordReasoning records pacing wait and call latency for one reasoning call
func (m *AnalysisMetrics) RecordReasoning(ctx context.Context, provider string, wait, call time.Duration, ok bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("provider", provider), attribute.Bool("ok", ok))
	m.ReasoningWait.Record(ctx, wait.Seconds(), metric.WithAttributes(attribute.String("provider", provider)))
	m.ReasoningCallDuration.Record(ctx, call.Seconds(), attrs)
}

// RecordUpload counts an accepted upload
func (m *AnalysisMetrics) RecordUpload(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.UploadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordUnparsedTemporal counts cells the temporal normalizer could not parse
func (m *AnalysisMetrics) RecordUnparsedTemporal(ctx context.Context, dataset string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.UnparsedTemporalValues.Add(ctx, int64(n), metric.WithAttributes(attribute.String("dataset", dataset)))
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %w", errors.Join(errs...))
	}
	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts the otel trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}
