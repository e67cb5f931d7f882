package dataprocessing

import (
	"strconv"
	"time"

	"ghostpayroll/pkg/contracts/domain"
)

// JoiningDateColumn is the employee column trends are keyed on
const JoiningDateColumn = "joining_date"

// DefaultTrendYears is the width of the hire-year window
const DefaultTrendYears = 10

// DeriveTrends counts anomalies by the hire year of the flagged employee over
// the years window ending at now. It returns an empty series when the
// employee frame has no joining dates at all. Anomalies whose employee is
// unknown, has no parsable joining date, or was hired outside the window
// are not counted.
func DeriveTrends(anomalies []domain.Anomaly, employees *Frame, now time.Time, years int) []domain.TrendBucket {
	if years <= 0 {
		years = DefaultTrendYears
	}
	if employees == nil || !employees.HasColumn(JoiningDateColumn) || allNull(employees.Column(JoiningDateColumn)) {
		return []domain.TrendBucket{}
	}

	first := now.Year() - years + 1
	buckets := make([]domain.TrendBucket, years)
	for i := range buckets {
		buckets[i] = domain.TrendBucket{Year: strconv.Itoa(first + i)}
	}

	hireYears := hireYearIndex(employees, now)
	for _, a := range anomalies {
		year, ok := hireYears[a.EmpID]
		if !ok {
			continue
		}
		if i := year - first; i >= 0 && i < years {
			buckets[i].Count++
		}
	}
	return buckets
}

// hireYearIndex maps emp_id to the joining year of its first row. Employees
// whose first row has no usable date are left out.
func hireYearIndex(employees *Frame, ref time.Time) map[string]int {
	out := make(map[string]int, employees.Len())
	seen := make(map[string]bool, employees.Len())
	for i := 0; i < employees.Len(); i++ {
		id, ok := employees.Value(i, "emp_id").keyText()
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		if ts := timestampOf(employees, i, JoiningDateColumn, ref); ts.Valid {
			out[id] = ts.Time.Year()
		}
	}
	return out
}

func allNull(cells []Cell) bool {
	for _, c := range cells {
		if !c.IsNull() {
			return false
		}
	}
	return true
}
