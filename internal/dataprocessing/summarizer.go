package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"

	"ghostpayroll/pkg/contracts/domain"
)

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	SampleRows       int // rows sampled from each raw dataset
	MergedSampleRows int // rows sampled from the reconciled frame
}

// DefaultSummarizerConfig returns the sampling sizes used by the web service
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		SampleRows:       5,
		MergedSampleRows: 10,
	}
}

// DatasetSample is the head of one input dataset rendered as CSV
type DatasetSample struct {
	Kind  domain.DatasetKind
	Title string
	CSV   string
}

// Context is the compact description of a batch handed to the reasoning service
type Context struct {
	Stats        domain.ContextStats
	Samples      []DatasetSample
	MergedSample string
	MergedRows   int
}

// Summarizer computes aggregate metrics and row samples for a reconciled batch
type Summarizer struct {
	logger *slog.Logger
	config SummarizerConfig
}

// NewSummarizer creates a new Summarizer with the given configuration
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.SampleRows < 0 {
		config.SampleRows = 0
	}
	if config.MergedSampleRows < 0 {
		config.MergedSampleRows = 0
	}
	return &Summarizer{
		logger: logger.With(slog.String("component", "summarizer")),
		config: config,
	}
}

// Summarize builds the reasoning context. Aggregates are taken from the
// pre-join datasets; merged is only sampled.
func (s *Summarizer) Summarize(ctx context.Context, b *Batch, merged *Frame) (*Context, error) {
	out := &Context{
		Stats: domain.ContextStats{
			TotalEmployees:         b.Employee.Len(),
			AverageNetSalary:       averageNetSalary(PayrollEntries(b.Salary)),
			AverageAttendanceHours: averageAttendanceHours(AttendanceEvents(b.Attendance)),
		},
	}

	for _, kind := range domain.RequiredDatasets {
		text, err := renderCSV(b.Get(kind).Head(s.config.SampleRows))
		if err != nil {
			return nil, fmt.Errorf("failed to render %s sample: %w", kind, err)
		}
		out.Samples = append(out.Samples, DatasetSample{
			Kind:  kind,
			Title: DatasetTitle(kind),
			CSV:   text,
		})
	}

	if merged != nil {
		text, err := renderCSV(merged.Head(s.config.MergedSampleRows))
		if err != nil {
			return nil, fmt.Errorf("failed to render merged sample: %w", err)
		}
		out.MergedSample = text
		out.MergedRows = merged.Len()
	}

	s.logger.DebugContext(ctx, "Reasoning context built",
		slog.Int("total_employees", out.Stats.TotalEmployees),
		slog.Bool("salary_defined", out.Stats.AverageNetSalary != nil),
		slog.Bool("attendance_defined", out.Stats.AverageAttendanceHours != nil),
		slog.Int("merged_rows", out.MergedRows))

	return out, nil
}

func averageNetSalary(entries []domain.PayrollEntry) *float64 {
	var sum float64
	var n int
	for _, e := range entries {
		if e.NetSalary != nil {
			sum += *e.NetSalary
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func averageAttendanceHours(events []domain.AttendanceEvent) *float64 {
	var sum float64
	var n int
	for _, e := range events {
		if d, ok := e.Duration(); ok {
			sum += d.Hours()
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// renderCSV writes f with a header row. Null cells are empty.
func renderCSV(f *Frame) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(f.Columns()); err != nil {
		return "", err
	}
	record := make([]string, len(f.columns))
	for _, row := range f.rows {
		for i, c := range row.Cells {
			record[i] = c.String()
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}
