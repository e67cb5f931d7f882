package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ghostpayroll/pkg/contracts/domain"
)

// dateLayouts are tried in order; the first that parses wins
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
	"2006-1",
	"2006",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// clockLayouts carry no date; matches are anchored to the reference date
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04:05 PM",
	"3:04PM",
}

// TemporalColumns lists, per dataset, the columns converted to timestamps
var TemporalColumns = map[domain.DatasetKind][]string{
	domain.DatasetAttendance: {"attendance_date", "check_in_time", "check_out_time"},
	domain.DatasetSalary:     {"payment_date"},
	domain.DatasetWifi:       {"connection_date", "connection_time", "disconnection_time"},
}

// ParseTimestamp parses s against the known date layouts. Month-only and
// year-only values fall on the first day of the period. Time-only values are
// placed on the date of ref.
func ParseTimestamp(s string, ref time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	upper := strings.ToUpper(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return time.Date(ref.Year(), ref.Month(), ref.Day(),
				t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), true
		}
	}
	return time.Time{}, false
}

// ColumnReport counts conversion results for one column
type ColumnReport struct {
	Dataset  domain.DatasetKind `json:"dataset"`
	Column   string             `json:"column"`
	Parsed   int                `json:"parsed"`
	Unparsed int                `json:"unparsed"`
}

// NormalizeReport summarizes one Normalize pass
type NormalizeReport struct {
	Columns []ColumnReport `json:"columns"`
}

// Unparsed returns the number of non-empty cells that failed every layout
func (r NormalizeReport) Unparsed() int {
	n := 0
	for _, c := range r.Columns {
		n += c.Unparsed
	}
	return n
}

// UnparsedByDataset groups unparsed counts by dataset
func (r NormalizeReport) UnparsedByDataset() map[domain.DatasetKind]int {
	out := make(map[domain.DatasetKind]int)
	for _, c := range r.Columns {
		if c.Unparsed > 0 {
			out[c.Dataset] += c.Unparsed
		}
	}
	return out
}

// TemporalNormalizer converts the date/time columns of a batch in place
type TemporalNormalizer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewTemporalNormalizer creates a normalizer whose reference date is now()
func NewTemporalNormalizer(logger *slog.Logger, now func() time.Time) *TemporalNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &TemporalNormalizer{
		logger: logger.With(slog.String("component", "temporal_normalizer")),
		now:    now,
	}
}

// Normalize rewrites the temporal columns of b as time cells. Unparsable
// values become null. Missing columns are skipped; it never fails.
func (n *TemporalNormalizer) Normalize(ctx context.Context, b *Batch) NormalizeReport {
	ref := n.now()
	var report NormalizeReport

	for _, kind := range domain.RequiredDatasets {
		frame := b.Get(kind)
		if frame == nil {
			continue
		}
		for _, col := range TemporalColumns[kind] {
			if !frame.HasColumn(col) {
				continue
			}
			cr := ColumnReport{Dataset: kind, Column: col}
			for i := 0; i < frame.Len(); i++ {
				cell := frame.Value(i, col)
				switch cell.Kind() {
				case CellTime:
					cr.Parsed++
				case CellText:
					if t, ok := ParseTimestamp(cell.String(), ref); ok {
						frame.Set(i, col, TimeCell(t))
						cr.Parsed++
					} else {
						frame.Set(i, col, NullCell())
						cr.Unparsed++
					}
				}
			}
			report.Columns = append(report.Columns, cr)
		}
	}

	if unparsed := report.Unparsed(); unparsed > 0 {
		for _, c := range report.Columns {
			if c.Unparsed == 0 {
				continue
			}
			n.logger.WarnContext(ctx, "Unparsable date/time values replaced with null",
				slog.String("dataset", string(c.Dataset)),
				slog.String("column", c.Column),
				slog.Int("unparsed", c.Unparsed),
				slog.Int("parsed", c.Parsed))
		}
	} else {
		n.logger.DebugContext(ctx, "Temporal columns normalized", slog.Int("columns", len(report.Columns)))
	}

	return report
}
