package dataprocessing

import (
	"time"

	"ghostpayroll/pkg/contracts/domain"
)

func textOf(f *Frame, i int, col string) string {
	return f.Value(i, col).String()
}

func floatOf(f *Frame, i int, col string) *float64 {
	v, ok := f.Value(i, col).Float()
	if !ok {
		return nil
	}
	return &v
}

// timestampOf reads a time cell, parsing text cells that were never normalized
func timestampOf(f *Frame, i int, col string, ref time.Time) domain.Timestamp {
	cell := f.Value(i, col)
	if t, ok := cell.Time(); ok {
		return domain.NewTimestamp(t)
	}
	if cell.Kind() == CellText {
		if t, ok := ParseTimestamp(cell.String(), ref); ok {
			return domain.NewTimestamp(t)
		}
	}
	return domain.Timestamp{}
}

// EmployeeRecords decodes an employee master frame
func EmployeeRecords(f *Frame) []domain.EmployeeRecord {
	out := make([]domain.EmployeeRecord, f.Len())
	for i := range out {
		out[i] = domain.EmployeeRecord{
			EmpID:            textOf(f, i, "emp_id"),
			Name:             textOf(f, i, "employee_name"),
			Department:       textOf(f, i, "department"),
			Designation:      textOf(f, i, "designation"),
			JoiningDate:      timestampOf(f, i, "joining_date", time.Time{}),
			EmploymentStatus: textOf(f, i, "employment_status"),
			BaseSalary:       floatOf(f, i, "base_salary"),
			CostCenter:       textOf(f, i, "cost_center"),
			ReportingManager: textOf(f, i, "reporting_manager"),
			EmployeeType:     textOf(f, i, "employee_type"),
			Location:         textOf(f, i, "location"),
		}
	}
	return out
}

// AttendanceEvents decodes an attendance frame
func AttendanceEvents(f *Frame) []domain.AttendanceEvent {
	out := make([]domain.AttendanceEvent, f.Len())
	for i := range out {
		out[i] = domain.AttendanceEvent{
			EmpID:            textOf(f, i, "emp_id"),
			AttendanceDate:   timestampOf(f, i, "attendance_date", time.Time{}),
			CheckIn:          timestampOf(f, i, "check_in_time", time.Time{}),
			CheckOut:         timestampOf(f, i, "check_out_time", time.Time{}),
			WorkMode:         textOf(f, i, "work_mode"),
			AttendanceStatus: textOf(f, i, "attendance_status"),
			Location:         textOf(f, i, "location"),
			DeviceID:         textOf(f, i, "device_id"),
			IPAddress:        textOf(f, i, "ip_address"),
			BreakDuration:    floatOf(f, i, "break_duration"),
			OvertimeHours:    floatOf(f, i, "overtime_hours"),
			ShiftType:        textOf(f, i, "shift_type"),
		}
	}
	return out
}

// ConnectionSessions decodes a Wi-Fi log frame
func ConnectionSessions(f *Frame) []domain.ConnectionSession {
	out := make([]domain.ConnectionSession, f.Len())
	for i := range out {
		out[i] = domain.ConnectionSession{
			EmpID:          textOf(f, i, "emp_id"),
			ConnectionDate: timestampOf(f, i, "connection_date", time.Time{}),
			DeviceMAC:      textOf(f, i, "device_mac"),
			ConnectedAt:    timestampOf(f, i, "connection_time", time.Time{}),
			DisconnectedAt: timestampOf(f, i, "disconnection_time", time.Time{}),
			AccessPoint:    textOf(f, i, "access_point"),
			SignalStrength: floatOf(f, i, "signal_strength"),
			DataUsage:      floatOf(f, i, "data_usage"),
			ConnectionType: textOf(f, i, "connection_type"),
			Location:       textOf(f, i, "location"),
		}
	}
	return out
}

// PayrollEntries decodes a salary payout frame
func PayrollEntries(f *Frame) []domain.PayrollEntry {
	out := make([]domain.PayrollEntry, f.Len())
	for i := range out {
		month := textOf(f, i, "payroll_month")
		if c, ok := canonicalMonth(f.Value(i, "payroll_month")); ok {
			month = c
		}
		out[i] = domain.PayrollEntry{
			EmpID:         textOf(f, i, "emp_id"),
			PayrollMonth:  month,
			BasicSalary:   floatOf(f, i, "basic_salary"),
			Allowances:    floatOf(f, i, "allowances"),
			Deductions:    floatOf(f, i, "deductions"),
			NetSalary:     floatOf(f, i, "net_salary"),
			PaymentDate:   timestampOf(f, i, "payment_date", time.Time{}),
			BankAccount:   textOf(f, i, "bank_account"),
			PaymentStatus: textOf(f, i, "payment_status"),
			TaxDeduction:  floatOf(f, i, "tax_deduction"),
			Bonus:         floatOf(f, i, "bonus"),
			Incentives:    floatOf(f, i, "incentives"),
		}
	}
	return out
}

// ReconciledRow is a read-only view of one row of the reconciled frame
type ReconciledRow struct {
	frame *Frame
	index int
}

// ReconciledRows returns a view per row of f
func ReconciledRows(f *Frame) []ReconciledRow {
	out := make([]ReconciledRow, f.Len())
	for i := range out {
		out[i] = ReconciledRow{frame: f, index: i}
	}
	return out
}

// EmpID returns the coalesced employee identifier
func (r ReconciledRow) EmpID() string { return r.frame.Value(r.index, "emp_id").String() }

// Month returns the YYYY-MM join key, empty when absent
func (r ReconciledRow) Month() string { return r.frame.Value(r.index, MonthColumn).String() }

// Get returns the cell in column col
func (r ReconciledRow) Get(col string) Cell { return r.frame.Value(r.index, col) }

// Sources reports which datasets contributed to the row
func (r ReconciledRow) Sources() SourceSet { return r.frame.rows[r.index].Sources }
