package reasoning

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ghostpayroll/internal/dataprocessing"
	"ghostpayroll/internal/infrastructure"
	"ghostpayroll/pkg/contracts/domain"
)

// DefaultSummary is used when a well-formed reply omits the summary
const DefaultSummary = "No summary available."

// Outcome is the result of one reasoning call. It always carries a usable
// summary; OK is false when anomalies could not be obtained.
type Outcome struct {
	OK               bool
	Anomalies        []domain.Anomaly
	Summary          string
	RiskDistribution domain.RiskDistribution
	Raw              string
	Wait             time.Duration
	Latency          time.Duration
}

func failedOutcome(summary string) Outcome {
	return Outcome{
		Anomalies:        []domain.Anomaly{},
		Summary:          summary,
		RiskDistribution: domain.RiskDistribution{},
	}
}

// Options configures an Adapter
type Options struct {
	Generator Generator
	Pacer     *Pacer
	Parser    ResponseParser
	Prompts   *PromptBuilder
	Logger    *slog.Logger
	Metrics   *infrastructure.AnalysisMetrics
	// Timeout bounds a single Generate call; zero means no extra bound
	Timeout time.Duration
}

// Adapter paces, sends and interprets reasoning calls
type Adapter struct {
	gen     Generator
	pacer   *Pacer
	parser  ResponseParser
	prompts *PromptBuilder
	logger  *slog.Logger
	metrics *infrastructure.AnalysisMetrics
	timeout time.Duration
}

// NewAdapter creates an Adapter. Generator is required; other options default.
func NewAdapter(opts Options) (*Adapter, error) {
	if opts.Generator == nil {
		return nil, errors.New("reasoning generator is required")
	}
	if opts.Pacer == nil {
		opts.Pacer = NewPacer(10*time.Second, nil)
	}
	if opts.Parser == nil {
		opts.Parser = FirstObjectParser{}
	}
	if opts.Prompts == nil {
		pb, err := NewPromptBuilder()
		if err != nil {
			return nil, err
		}
		opts.Prompts = pb
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Adapter{
		gen:     opts.Generator,
		pacer:   opts.Pacer,
		parser:  opts.Parser,
		prompts: opts.Prompts,
		logger:  opts.Logger.With(slog.String("component", "reasoning"), slog.String("provider", opts.Generator.Name())),
		metrics: opts.Metrics,
		timeout: opts.Timeout,
	}, nil
}

// Provider returns the generator name
func (a *Adapter) Provider() string { return a.gen.Name() }

// Analyze renders the prompt for c, waits for a pacing slot, calls the
// generator and parses the reply. Failures are reported through the Outcome.
func (a *Adapter) Analyze(ctx context.Context, c *dataprocessing.Context) Outcome {
	name := a.gen.Name()

	prompt, err := a.prompts.Build(c)
	if err != nil {
		a.logger.ErrorContext(ctx, "Prompt rendering failed", slog.String("error", err.Error()))
		return failedOutcome(err.Error())
	}

	wait, err := a.pacer.Wait(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "Reasoning call abandoned while paced", slog.Duration("wait", wait))
		out := failedOutcome(name + " error: " + err.Error())
		out.Wait = wait
		return out
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := a.gen.Generate(callCtx, prompt)
	latency := time.Since(start)
	a.pacer.Done()

	out := a.interpret(ctx, name, raw, err)
	out.Wait = wait
	out.Latency = latency
	a.metrics.RecordReasoning(ctx, name, wait, latency, out.OK)

	a.logger.InfoContext(ctx, "Reasoning call finished",
		slog.Bool("ok", out.OK),
		slog.Int("anomalies", len(out.Anomalies)),
		slog.Duration("wait", wait),
		slog.Duration("latency", latency))
	return out
}

func (a *Adapter) interpret(ctx context.Context, name, raw string, callErr error) Outcome {
	if callErr != nil {
		a.logger.ErrorContext(ctx, "Reasoning service call failed", slog.String("error", callErr.Error()))
		return failedOutcome(name + " error: " + callErr.Error())
	}

	payload, err := a.parser.Parse(raw)
	switch {
	case errors.Is(err, ErrNoStructuredPayload):
		a.logger.WarnContext(ctx, "Reasoning reply contained no JSON object", slog.Int("raw_length", len(raw)))
		out := failedOutcome(name + " did not return valid JSON. Raw output: " + raw)
		out.Raw = raw
		return out
	case err != nil:
		a.logger.WarnContext(ctx, "Reasoning reply could not be decoded", slog.String("error", err.Error()))
		out := failedOutcome(name + " error: " + err.Error())
		out.Raw = raw
		return out
	}

	summary := payload.Summary
	if summary == "" {
		summary = DefaultSummary
	}
	return Outcome{
		OK:               true,
		Anomalies:        payload.Anomalies,
		Summary:          summary,
		RiskDistribution: payload.RiskDistribution,
		Raw:              raw,
	}
}
