package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// AnomalyType is the fraud category assigned by the reasoning service
type AnomalyType string

const (
	AnomalyGhostEmployee     AnomalyType = "ghost_employee"
	AnomalyPayrollFraud      AnomalyType = "payroll_fraud"
	AnomalyAttendanceFraud   AnomalyType = "attendance_fraud"
	AnomalySuspiciousPattern AnomalyType = "suspicious_pattern"
)

// RiskLevel grades an anomaly
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// Anomaly is a finding returned by the reasoning service. The pipeline only
// reads EmpID; everything else is passed through untouched.
type Anomaly struct {
	EmpID          string      `json:"emp_id"`
	Name           string      `json:"name"`
	Type           AnomalyType `json:"type"`
	RiskLevel      RiskLevel   `json:"risk_level"`
	Status         string      `json:"status"`
	Description    string      `json:"description"`
	Evidence       string      `json:"evidence"`
	Recommendation string      `json:"recommendation"`
}

// UnmarshalJSON accepts emp_id as either a JSON string or a bare number
func (a *Anomaly) UnmarshalJSON(data []byte) error {
	type plain Anomaly
	var aux struct {
		plain
		EmpID json.RawMessage `json:"emp_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Anomaly(aux.plain)

	raw := bytes.TrimSpace(aux.EmpID)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		a.EmpID = ""
	case raw[0] == '"':
		if err := json.Unmarshal(raw, &a.EmpID); err != nil {
			return err
		}
	default:
		a.EmpID = string(raw)
	}
	return nil
}

// RiskDistribution counts anomalies per risk level as reported by the reasoning service
type RiskDistribution map[string]int

// TrendBucket is the anomaly count for one hire year
type TrendBucket struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// ContextStats are the aggregate metrics sent to the reasoning service.
// A nil average means the value is undefined for the batch.
type ContextStats struct {
	TotalEmployees         int      `json:"total_employees"`
	AverageNetSalary       *float64 `json:"average_net_salary"`
	AverageAttendanceHours *float64 `json:"average_attendance_hours"`
}

// AnalysisResult is the output contract of one analysis pass. It is well-formed
// under every failure mode; only Summary and the emptiness of Anomalies/Trends differ.
type AnalysisResult struct {
	ID               string           `json:"id,omitempty"`
	Anomalies        []Anomaly        `json:"anomalies"`
	Summary          string           `json:"summary"`
	RiskDistribution RiskDistribution `json:"risk_distribution"`
	Trends           []TrendBucket    `json:"trends"`
	Stats            *ContextStats    `json:"stats,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// NewFailedResult builds the empty result shape carrying only a summary
func NewFailedResult(summary string) *AnalysisResult {
	return &AnalysisResult{
		Anomalies:        []Anomaly{},
		Summary:          summary,
		RiskDistribution: RiskDistribution{},
		Trends:           []TrendBucket{},
	}
}

// Normalize replaces nil collections so the result always renders as [] and {}
func (r *AnalysisResult) Normalize() *AnalysisResult {
	if r.Anomalies == nil {
		r.Anomalies = []Anomaly{}
	}
	if r.RiskDistribution == nil {
		r.RiskDistribution = RiskDistribution{}
	}
	if r.Trends == nil {
		r.Trends = []TrendBucket{}
	}
	return r
}
