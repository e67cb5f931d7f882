package domain

import (
	"time"
)

// DatasetKind identifies one of the four upload slots of an analysis batch
type DatasetKind string

const (
	DatasetEmployee   DatasetKind = "employee"
	DatasetAttendance DatasetKind = "attendance"
	DatasetSalary     DatasetKind = "salary"
	DatasetWifi       DatasetKind = "wifi"
)

// RequiredDatasets lists the batch slots in validation order
var RequiredDatasets = []DatasetKind{
	DatasetEmployee,
	DatasetAttendance,
	DatasetSalary,
	DatasetWifi,
}

// DisplayName returns the human-readable dataset name used in summaries
func (k DatasetKind) DisplayName() string {
	switch k {
	case DatasetEmployee:
		return "Employee Master Data"
	case DatasetAttendance:
		return "Attendance Records"
	case DatasetSalary:
		return "Salary Payout Data"
	case DatasetWifi:
		return "Wi-Fi Session Logs"
	default:
		return string(k)
	}
}

// Valid reports whether k is one of the known dataset kinds
func (k DatasetKind) Valid() bool {
	for _, known := range RequiredDatasets {
		if k == known {
			return true
		}
	}
	return false
}

// Timestamp is a parsed date/time cell. Valid=false is the absent marker for
// values that were missing or could not be parsed.
type Timestamp struct {
	Time  time.Time `json:"time"`
	Valid bool      `json:"valid"`
}

// NewTimestamp wraps a parsed time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

// EmployeeRecord is one row of the employee master dataset
type EmployeeRecord struct {
	EmpID            string    `json:"emp_id"`
	Name             string    `json:"employee_name"`
	Department       string    `json:"department"`
	Designation      string    `json:"designation,omitempty"`
	JoiningDate      Timestamp `json:"joining_date"`
	EmploymentStatus string    `json:"employment_status"`
	BaseSalary       *float64  `json:"base_salary,omitempty"`
	CostCenter       string    `json:"cost_center,omitempty"`
	ReportingManager string    `json:"reporting_manager,omitempty"`
	EmployeeType     string    `json:"employee_type,omitempty"`
	Location         string    `json:"location,omitempty"`
}

// AttendanceEvent is one row of the attendance dataset, keyed by (emp_id, date)
type AttendanceEvent struct {
	EmpID            string    `json:"emp_id"`
	AttendanceDate   Timestamp `json:"attendance_date"`
	CheckIn          Timestamp `json:"check_in_time"`
	CheckOut         Timestamp `json:"check_out_time"`
	WorkMode         string    `json:"work_mode,omitempty"`
	AttendanceStatus string    `json:"attendance_status,omitempty"`
	Location         string    `json:"location,omitempty"`
	DeviceID         string    `json:"device_id,omitempty"`
	IPAddress        string    `json:"ip_address,omitempty"`
	BreakDuration    *float64  `json:"break_duration,omitempty"`
	OvertimeHours    *float64  `json:"overtime_hours,omitempty"`
	ShiftType        string    `json:"shift_type,omitempty"`
}

// Duration returns check-out minus check-in when both timestamps are present
func (a AttendanceEvent) Duration() (time.Duration, bool) {
	if !a.CheckIn.Valid || !a.CheckOut.Valid {
		return 0, false
	}
	return a.CheckOut.Time.Sub(a.CheckIn.Time), true
}

// ConnectionSession is one row of the Wi-Fi connection log, keyed by (emp_id, connection date)
type ConnectionSession struct {
	EmpID          string    `json:"emp_id"`
	ConnectionDate Timestamp `json:"connection_date"`
	DeviceMAC      string    `json:"device_mac"`
	ConnectedAt    Timestamp `json:"connection_time"`
	DisconnectedAt Timestamp `json:"disconnection_time"`
	AccessPoint    string    `json:"access_point,omitempty"`
	SignalStrength *float64  `json:"signal_strength,omitempty"`
	DataUsage      *float64  `json:"data_usage,omitempty"`
	ConnectionType string    `json:"connection_type,omitempty"`
	Location       string    `json:"location,omitempty"`
}

// PayrollEntry is one row of the salary payout dataset, keyed by (emp_id, YYYY-MM)
type PayrollEntry struct {
	EmpID         string    `json:"emp_id"`
	PayrollMonth  string    `json:"payroll_month"`
	BasicSalary   *float64  `json:"basic_salary,omitempty"`
	Allowances    *float64  `json:"allowances,omitempty"`
	Deductions    *float64  `json:"deductions,omitempty"`
	NetSalary     *float64  `json:"net_salary,omitempty"`
	PaymentDate   Timestamp `json:"payment_date"`
	BankAccount   string    `json:"bank_account,omitempty"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	TaxDeduction  *float64  `json:"tax_deduction,omitempty"`
	Bonus         *float64  `json:"bonus,omitempty"`
	Incentives    *float64  `json:"incentives,omitempty"`
}

// UploadRecord logs one accepted dataset upload
type UploadRecord struct {
	ID        string      `json:"id"`
	Filename  string      `json:"filename"`
	FileType  DatasetKind `json:"file_type"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
