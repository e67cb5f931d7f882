package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ghostpayroll/internal/errors"
	"ghostpayroll/internal/shared/testutil"
)

func normalizedFixture(t *testing.T) *Batch {
	t.Helper()
	b := fixtureBatch(t)
	NewTemporalNormalizer(nil, nil).Normalize(context.Background(), b)
	return b
}

func TestReconciler_Reconcile(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	b := normalizedFixture(t)

	merged, err := NewReconciler(logger).Reconcile(context.Background(), b)
	require.NoError(t, err)

	t.Run("row layout", func(t *testing.T) {
		// E001 has two attendance days under one payroll month, E002 is payroll only
		require.Equal(t, 4, merged.Len())
		assert.Equal(t, []string{"E001", "E001", "E002", "E003"}, columnStrings(merged, "emp_id"))
		assert.Equal(t, []string{"2024-01", "2024-01", "2024-01", "2024-01"}, columnStrings(merged, MonthColumn))
	})

	t.Run("columns", func(t *testing.T) {
		assert.Equal(t, []string{
			"emp_id", "attendance_date", "check_in_time", "check_out_time", "work_mode",
			"connection_date", "device_mac", "connection_time", "disconnection_time",
			"month", "net_salary", "payment_date",
			"employee_name", "department", "designation", "joining_date", "employment_status", "base_salary",
		}, merged.Columns())
	})

	t.Run("sources", func(t *testing.T) {
		rows := ReconciledRows(merged)
		all := SourceAttendance | SourceConnection | SourcePayroll | SourceEmployee
		assert.Equal(t, all, rows[0].Sources())
		assert.Equal(t, SourcePayroll|SourceEmployee, rows[2].Sources())
		assert.Equal(t, SourceAttendance|SourcePayroll|SourceEmployee, rows[3].Sources())
		assert.Equal(t, "Bob Kariuki", rows[2].Get("employee_name").String())
		assert.True(t, rows[3].Get("device_mac").IsNull())
	})

	t.Run("inputs untouched", func(t *testing.T) {
		assert.Equal(t, 3, b.Attendance.Len())
		assert.True(t, b.Salary.HasColumn("payroll_month"))
		assert.False(t, b.Attendance.HasColumn(MonthColumn))
	})

	t.Run("coverage logged", func(t *testing.T) {
		testutil.AssertLogAttr(t, handler, "with_payroll", int64(4))
	})
}

func TestReconciler_MonthFallsBackToConnectionDate(t *testing.T) {
	fx := testutil.NewWorkforceFixtures()
	wifi := "emp_id,connection_date,device_mac,connection_time,disconnection_time\n" +
		"E009,2024-02-03,AA:00,2024-02-03 09:00:00,2024-02-03 10:00:00\n"
	salary := "emp_id,payroll_month,net_salary,payment_date\nE009,2024-02,1000,2024-02-28\n"
	b := batchFromCSV(t, fx.EmployeeCSV, fx.AttendanceCSV, salary, wifi)
	NewTemporalNormalizer(nil, nil).Normalize(context.Background(), b)

	merged, err := NewReconciler(nil).Reconcile(context.Background(), b)
	require.NoError(t, err)

	var found bool
	for _, row := range ReconciledRows(merged) {
		if row.EmpID() != "E009" {
			continue
		}
		found = true
		assert.Equal(t, "2024-02", row.Month())
		assert.Equal(t, SourceConnection|SourcePayroll, row.Sources(), "connection row matched the payroll month")
	}
	assert.True(t, found)
}

func TestReconciler_UnparsedDatesKeepRows(t *testing.T) {
	fx := testutil.NewWorkforceFixtures()
	attendance := "emp_id,attendance_date,check_in_time,check_out_time\nE001,garbage,,\n"
	wifi := "emp_id,connection_date,device_mac,connection_time,disconnection_time\nE001,garbage,AA,,\n"
	b := batchFromCSV(t, fx.EmployeeCSV, attendance, fx.SalaryCSV, wifi)
	NewTemporalNormalizer(nil, nil).Normalize(context.Background(), b)

	merged, err := NewReconciler(nil).Reconcile(context.Background(), b)
	require.NoError(t, err)

	// two null-key presence rows plus three payroll rows, none lost
	assert.Equal(t, 5, merged.Len())
}

func TestReconciler_SchemaFailure(t *testing.T) {
	fx := testutil.NewWorkforceFixtures()
	b := batchFromCSV(t, fx.EmployeeCSV, fx.AttendanceCSV, dropColumn(fx.SalaryCSV, "net_salary"), fx.WifiCSV)

	_, err := NewReconciler(nil).Reconcile(context.Background(), b)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeSchema, apperrors.TypeOf(err))
}

func TestCanonicalMonth(t *testing.T) {
	tests := []struct {
		cell   Cell
		want   string
		wantOK bool
	}{
		{TextCell("2024-01"), "2024-01", true},
		{TextCell("2024-01-31"), "2024-01", true},
		{TimeCell(time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC)), "2023-07", true},
		{TextCell("2024-1"), "2024-01", true},
		{TextCell("2019-3-7"), "2019-03", true},
		{TextCell("2024"), "", false},
		{TextCell("January"), "", false},
		{NullCell(), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.cell.String(), func(t *testing.T) {
			got, ok := canonicalMonth(tt.cell)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
