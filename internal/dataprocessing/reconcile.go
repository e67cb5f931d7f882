package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "ghostpayroll/internal/errors"
)

const (
	// MonthColumn is the derived (emp_id, month) join key shared with payroll
	MonthColumn = "month"
	monthLayout = "2006-01"
)

var (
	presenceJoin = JoinSpec{
		LeftOn:   []string{"emp_id", "attendance_date"},
		RightOn:  []string{"emp_id", "connection_date"},
		Kind:     JoinOuter,
		Suffixes: [2]string{"_att", "_wifi"},
	}
	payrollJoin = JoinSpec{
		LeftOn:  []string{"emp_id", MonthColumn},
		RightOn: []string{"emp_id", MonthColumn},
		Kind:    JoinOuter,
	}
	masterJoin = JoinSpec{
		LeftOn:  []string{"emp_id"},
		RightOn: []string{"emp_id"},
		Kind:    JoinLeft,
	}
)

// Reconciler builds the cross-referenced view of a normalized batch
type Reconciler struct {
	logger *slog.Logger
}

// NewReconciler creates a Reconciler
func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger.With(slog.String("component", "reconciler"))}
}

// Reconcile joins the four datasets. The batch frames are not modified.
//
//  1. attendance outer-join wifi on (emp_id, attendance_date = connection_date)
//  2. derive month, then outer-join salary on (emp_id, month)
//  3. left-join employee on emp_id
func (r *Reconciler) Reconcile(ctx context.Context, b *Batch) (*Frame, error) {
	if err := ValidateSchema(b); err != nil {
		return nil, err
	}

	attendance := b.Attendance.Clone()
	attendance.TagSources(SourceAttendance)
	wifi := b.Wifi.Clone()
	wifi.TagSources(SourceConnection)

	presence, err := HashJoin(attendance, wifi, presenceJoin)
	if err != nil {
		return nil, apperrors.NewUnexpectedError("attendance/connection join failed", err)
	}
	deriveMonth(presence)

	salary, err := payrollFrame(b.Salary)
	if err != nil {
		return nil, err
	}
	paid, err := HashJoin(presence, salary, payrollJoin)
	if err != nil {
		return nil, apperrors.NewUnexpectedError("payroll join failed", err)
	}

	employees := b.Employee.Clone()
	employees.TagSources(SourceEmployee)
	merged, err := HashJoin(paid, employees, masterJoin)
	if err != nil {
		return nil, apperrors.NewUnexpectedError("employee join failed", err)
	}
	merged.Name = "reconciled"

	r.logCoverage(ctx, merged)
	return merged, nil
}

// deriveMonth sets month from attendance_date, falling back to connection_date
func deriveMonth(f *Frame) {
	f.AddColumn(MonthColumn)
	for i := 0; i < f.Len(); i++ {
		month := NullCell()
		for _, col := range []string{"attendance_date", "connection_date"} {
			if t, ok := f.Value(i, col).Time(); ok {
				month = TextCell(t.Format(monthLayout))
				break
			}
		}
		f.Set(i, MonthColumn, month)
	}
}

// payrollFrame renames payroll_month to month and canonicalizes its values to YYYY-MM
func payrollFrame(src *Frame) (*Frame, error) {
	salary := src.Clone()
	salary.TagSources(SourcePayroll)
	if !salary.RenameColumn("payroll_month", MonthColumn) {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("Column '%s' in Salary Payout Data conflicts with payroll_month", MonthColumn))
	}
	for i := 0; i < salary.Len(); i++ {
		if month, ok := canonicalMonth(salary.Value(i, MonthColumn)); ok {
			salary.Set(i, MonthColumn, TextCell(month))
		}
	}
	return salary, nil
}

// canonicalMonth reduces date-like payroll months to YYYY-MM. Other text is left alone.
func canonicalMonth(c Cell) (string, bool) {
	if t, ok := c.Time(); ok {
		return t.Format(monthLayout), true
	}
	if c.Kind() != CellText {
		return "", false
	}
	s := c.String()
	if t, err := time.Parse(monthLayout, s); err == nil {
		return t.Format(monthLayout), true
	}
	if t, ok := ParseTimestamp(s, time.Time{}); ok && len(s) > len("2006") {
		return t.Format(monthLayout), true
	}
	return "", false
}

func (r *Reconciler) logCoverage(ctx context.Context, f *Frame) {
	var attendance, connection, payroll, employee int
	for _, row := range f.rows {
		if row.Sources.Has(SourceAttendance) {
			attendance++
		}
		if row.Sources.Has(SourceConnection) {
			connection++
		}
		if row.Sources.Has(SourcePayroll) {
			payroll++
		}
		if row.Sources.Has(SourceEmployee) {
			employee++
		}
	}
	r.logger.InfoContext(ctx, "Datasets reconciled",
		slog.Int("rows", f.Len()),
		slog.Int("columns", len(f.columns)),
		slog.Int("with_attendance", attendance),
		slog.Int("with_connection", connection),
		slog.Int("with_payroll", payroll),
		slog.Int("with_employee", employee))
}
