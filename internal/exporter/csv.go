package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"ghostpayroll/pkg/contracts/domain"
)

// anomalyHeaders are the columns of the anomaly table in every format
var anomalyHeaders = []string{
	"emp_id", "name", "type", "risk_level", "status", "description", "evidence", "recommendation",
}

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

func anomalyRecord(a domain.Anomaly) []string {
	return []string{
		a.EmpID, a.Name, string(a.Type), string(a.RiskLevel), a.Status, a.Description, a.Evidence, a.Recommendation,
	}
}

// WriteAnomaliesCSV writes the anomaly table of r as CSV
func WriteAnomaliesCSV(w io.Writer, r *domain.AnalysisResult, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(anomalyHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, a := range r.Anomalies {
		if err := writer.Write(anomalyRecord(a)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
