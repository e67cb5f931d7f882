package exporter

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"ghostpayroll/pkg/contracts/domain"
)

// Sheet names of the XLSX report
const (
	SheetSummary   = "Summary"
	SheetAnomalies = "Anomalies"
	SheetTrends    = "Trends"
)

// WriteReportXLSX writes a workbook with summary, anomaly and trend sheets
func WriteReportXLSX(w io.Writer, r *domain.AnalysisResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for _, name := range []string{SheetAnomalies, SheetTrends} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRows(f, SheetSummary, summaryRows(r)); err != nil {
		return err
	}
	if err := f.SetColStyle(SheetSummary, "A", bold); err != nil {
		return fmt.Errorf("failed to style summary labels: %w", err)
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 28); err != nil {
		return fmt.Errorf("failed to size summary sheet: %w", err)
	}

	anomalies := [][]interface{}{toRow(anomalyHeaders)}
	for _, a := range r.Anomalies {
		anomalies = append(anomalies, toRow(anomalyRecord(a)))
	}
	if err := writeRows(f, SheetAnomalies, anomalies); err != nil {
		return err
	}

	trends := [][]interface{}{{"year", "count"}}
	for _, b := range r.Trends {
		trends = append(trends, []interface{}{b.Year, b.Count})
	}
	if err := writeRows(f, SheetTrends, trends); err != nil {
		return err
	}

	for _, sheet := range []string{SheetAnomalies, SheetTrends} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func summaryRows(r *domain.AnalysisResult) [][]interface{} {
	created := ""
	if !r.CreatedAt.IsZero() {
		created = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	rows := [][]interface{}{
		{"Analysis ID", r.ID},
		{"Created at", created},
		{"Summary", r.Summary},
		{"Anomalies", len(r.Anomalies)},
	}
	if r.Stats != nil {
		rows = append(rows,
			[]interface{}{"Total employees", r.Stats.TotalEmployees},
			[]interface{}{"Average net salary", formatMetric(r.Stats.AverageNetSalary)},
			[]interface{}{"Average attendance hours", formatMetric(r.Stats.AverageAttendanceHours)},
		)
	}

	levels := make([]string, 0, len(r.RiskDistribution))
	for level := range r.RiskDistribution {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	rows = append(rows, []interface{}{}, []interface{}{"Risk level", "Count"})
	for _, level := range levels {
		rows = append(rows, []interface{}{level, r.RiskDistribution[level]})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
