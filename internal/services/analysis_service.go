package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ghostpayroll/internal/config"
	"ghostpayroll/internal/dataprocessing"
	apperrors "ghostpayroll/internal/errors"
	"ghostpayroll/internal/infrastructure"
	"ghostpayroll/internal/reasoning"
	"ghostpayroll/pkg/contracts/domain"
	"ghostpayroll/pkg/contracts/events"
)

// SummaryIncomplete is returned when a slot of the batch is empty
const SummaryIncomplete = "All required files not uploaded"

// Analysis outcomes as recorded in metrics and logs
const (
	OutcomeSuccess         = "success"
	OutcomeIncomplete      = "incomplete"
	OutcomeSchema          = "schema_violation"
	OutcomeReasoningFailed = "reasoning_failed"
	OutcomeUnexpected      = "unexpected"
)

// Reasoner classifies a reconciled batch
type Reasoner interface {
	Provider() string
	Analyze(ctx context.Context, c *dataprocessing.Context) reasoning.Outcome
}

// AnalysisDeps are the collaborators of an AnalysisService
type AnalysisDeps struct {
	Batches  *BatchStore
	Results  *ResultStore
	Reasoner Reasoner
	Logger   *slog.Logger
	Metrics  *infrastructure.AnalysisMetrics
	Tracer   trace.Tracer
	Events   EventPublisher
	Analysis config.AnalysisConfig
	// Now is the clock used for trends and timestamps
	Now func() time.Time
}

// AnalysisService runs the reconciliation and reasoning pipeline
type AnalysisService struct {
	batches    *BatchStore
	results    *ResultStore
	reasoner   Reasoner
	normalizer *dataprocessing.TemporalNormalizer
	reconciler *dataprocessing.Reconciler
	summarizer *dataprocessing.Summarizer
	logger     *slog.Logger
	metrics    *infrastructure.AnalysisMetrics
	tracer     trace.Tracer
	events     EventPublisher
	trendYears int
	now        func() time.Time
}

// NewAnalysisService wires the pipeline stages
func NewAnalysisService(deps AnalysisDeps) (*AnalysisService, error) {
	if deps.Reasoner == nil {
		return nil, errors.New("reasoner is required")
	}
	if deps.Batches == nil {
		deps.Batches = NewBatchStore(config.RecentUploadsLimit)
	}
	if deps.Results == nil {
		results, err := NewResultStore(config.DefaultResultHistory)
		if err != nil {
			return nil, err
		}
		deps.Results = results
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer(infrastructure.MeterName)
	}
	if deps.Events == nil {
		deps.Events = noopPublisher{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Analysis.TrendYears <= 0 {
		deps.Analysis.TrendYears = config.DefaultTrendYears
	}

	return &AnalysisService{
		batches:    deps.Batches,
		results:    deps.Results,
		reasoner:   deps.Reasoner,
		normalizer: dataprocessing.NewTemporalNormalizer(deps.Logger, deps.Now),
		reconciler: dataprocessing.NewReconciler(deps.Logger),
		summarizer: dataprocessing.NewSummarizer(deps.Logger, dataprocessing.SummarizerConfig{
			SampleRows:       deps.Analysis.SampleRows,
			MergedSampleRows: deps.Analysis.MergedSampleRows,
		}),
		logger:     deps.Logger.With(slog.String("component", "analysis_service")),
		metrics:    deps.Metrics,
		tracer:     deps.Tracer,
		events:     deps.Events,
		trendYears: deps.Analysis.TrendYears,
		now:        deps.Now,
	}, nil
}

// Batches exposes the batch store
func (s *AnalysisService) Batches() *BatchStore { return s.batches }

// Results exposes the result store
func (s *AnalysisService) Results() *ResultStore { return s.results }

// Result returns a stored result by ID, or the most recent one for "latest"
func (s *AnalysisService) Result(id string) (*domain.AnalysisResult, error) {
	var (
		r  *domain.AnalysisResult
		ok bool
	)
	if id == "latest" {
		r, ok = s.results.Latest()
	} else {
		r, ok = s.results.Get(id)
	}
	if !ok {
		return nil, ErrResultNotFound
	}
	return r, nil
}

// Analyze runs the pipeline on the current batch. An incomplete batch is
// reported without touching it; otherwise the batch is cleared afterwards
// whatever the outcome, and the result is stored.
func (s *AnalysisService) Analyze(ctx context.Context) *domain.AnalysisResult {
	batch, complete := s.batches.Snapshot()
	if !complete {
		s.logger.WarnContext(ctx, "Analysis requested with incomplete batch",
			slog.Any("status", s.batches.Status()))
		s.metrics.RecordAnalysis(ctx, OutcomeIncomplete, 0, -1)
		return domain.NewFailedResult(SummaryIncomplete)
	}
	defer s.batches.Clear()

	s.events.Publish(ctx, events.MessageTypeAnalysisStarted, events.AnalysisStarted{Provider: s.reasoner.Provider()})
	result := s.Run(ctx, batch)
	s.results.Put(result)
	s.events.Publish(ctx, events.MessageTypeAnalysisCompleted, events.AnalysisCompleted{
		AnalysisID:       result.ID,
		Summary:          result.Summary,
		Anomalies:        len(result.Anomalies),
		RiskDistribution: result.RiskDistribution,
	})
	return result
}

// Run analyzes batch directly without using the stores
func (s *AnalysisService) Run(ctx context.Context, batch *dataprocessing.Batch) (result *domain.AnalysisResult) {
	ctx, span := s.tracer.Start(ctx, "analysis.run",
		trace.WithAttributes(attribute.String("reasoning.provider", s.reasoner.Provider())))
	defer span.End()

	start := s.now()
	rows := -1
	outcome := OutcomeUnexpected

	defer func() {
		if rec := recover(); rec != nil {
			err := apperrors.NewUnexpectedError(fmt.Sprint(rec), nil)
			infrastructure.RecordError(ctx, err)
			s.logger.ErrorContext(ctx, "Analysis panicked", slog.Any("panic", rec))
			result = domain.NewFailedResult(fmt.Sprint(rec))
			outcome = OutcomeUnexpected
		}
		result.ID = uuid.NewString()
		result.CreatedAt = s.now().UTC()
		result.Normalize()

		span.SetAttributes(attribute.String("analysis.outcome", outcome), attribute.Int("analysis.anomalies", len(result.Anomalies)))
		s.metrics.RecordAnalysis(ctx, outcome, len(result.Anomalies), rows)
		s.logger.InfoContext(ctx, "Analysis finished",
			slog.String("analysis_id", result.ID),
			slog.String("outcome", outcome),
			slog.Int("anomalies", len(result.Anomalies)),
			slog.Int("trend_buckets", len(result.Trends)),
			slog.Duration("duration", s.now().Sub(start)))
	}()

	if err := s.stage(ctx, "analysis.validate", func(context.Context) error {
		return dataprocessing.ValidateSchema(batch)
	}); err != nil {
		outcome = outcomeFor(err)
		return domain.NewFailedResult(summaryFor(err))
	}

	_ = s.stage(ctx, "analysis.normalize", func(ctx context.Context) error {
		report := s.normalizer.Normalize(ctx, batch)
		for kind, n := range report.UnparsedByDataset() {
			s.metrics.RecordUnparsedTemporal(ctx, string(kind), n)
		}
		return nil
	})

	var merged *dataprocessing.Frame
	if err := s.stage(ctx, "analysis.reconcile", func(ctx context.Context) error {
		var err error
		merged, err = s.reconciler.Reconcile(ctx, batch)
		return err
	}); err != nil {
		outcome = outcomeFor(err)
		return domain.NewFailedResult(summaryFor(err))
	}
	rows = merged.Len()

	var summary *dataprocessing.Context
	if err := s.stage(ctx, "analysis.summarize", func(ctx context.Context) error {
		var err error
		summary, err = s.summarizer.Summarize(ctx, batch, merged)
		return err
	}); err != nil {
		return domain.NewFailedResult(summaryFor(err))
	}
	stats := summary.Stats

	var reply reasoning.Outcome
	_ = s.stage(ctx, "analysis.reasoning", func(ctx context.Context) error {
		reply = s.reasoner.Analyze(ctx, summary)
		if !reply.OK {
			return apperrors.NewExternalServiceError(reply.Summary, nil)
		}
		return nil
	})
	if !reply.OK {
		outcome = OutcomeReasoningFailed
		failed := domain.NewFailedResult(reply.Summary)
		failed.Stats = &stats
		return failed
	}

	var trends []domain.TrendBucket
	_ = s.stage(ctx, "analysis.trends", func(context.Context) error {
		trends = dataprocessing.DeriveTrends(reply.Anomalies, batch.Employee, s.now(), s.trendYears)
		return nil
	})

	outcome = OutcomeSuccess
	return &domain.AnalysisResult{
		Anomalies:        reply.Anomalies,
		Summary:          reply.Summary,
		RiskDistribution: reply.RiskDistribution,
		Trends:           trends,
		Stats:            &stats,
	}
}

// stage runs fn inside a child span
func (s *AnalysisService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, name)
	defer span.End()
	if err := fn(ctx); err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}
	return nil
}

// summaryFor turns a pipeline error into the user-facing summary
func summaryFor(err error) string {
	if apperrors.TypeOf(err) == apperrors.ErrTypeMissingInput {
		return SummaryIncomplete
	}
	return ErrorText(err)
}

func outcomeFor(err error) string {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeSchema:
		return OutcomeSchema
	case apperrors.ErrTypeMissingInput:
		return OutcomeIncomplete
	default:
		return OutcomeUnexpected
	}
}
