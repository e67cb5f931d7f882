package dataprocessing

import (
	"fmt"
	"strings"

	apperrors "ghostpayroll/internal/errors"
	"ghostpayroll/pkg/contracts/domain"
)

// RequiredColumns lists, per dataset, the columns the pipeline depends on in check order
var RequiredColumns = map[domain.DatasetKind][]string{
	domain.DatasetEmployee:   {"emp_id", "employee_name", "department", "employment_status"},
	domain.DatasetAttendance: {"emp_id", "attendance_date", "check_in_time", "check_out_time"},
	domain.DatasetSalary:     {"emp_id", "payroll_month", "net_salary", "payment_date"},
	domain.DatasetWifi:       {"emp_id", "connection_date", "device_mac", "connection_time", "disconnection_time"},
}

// DatasetTitle is the display name followed by the required columns, as used in samples
func DatasetTitle(kind domain.DatasetKind) string {
	return fmt.Sprintf("%s (%s)", kind.DisplayName(), strings.Join(RequiredColumns[kind], ", "))
}

// Batch is one complete set of uploads
type Batch struct {
	Employee   *Frame
	Attendance *Frame
	Salary     *Frame
	Wifi       *Frame
}

// Get returns the frame stored for kind
func (b *Batch) Get(kind domain.DatasetKind) *Frame {
	switch kind {
	case domain.DatasetEmployee:
		return b.Employee
	case domain.DatasetAttendance:
		return b.Attendance
	case domain.DatasetSalary:
		return b.Salary
	case domain.DatasetWifi:
		return b.Wifi
	}
	return nil
}

// Set stores f under kind; unknown kinds are ignored
func (b *Batch) Set(kind domain.DatasetKind, f *Frame) {
	switch kind {
	case domain.DatasetEmployee:
		b.Employee = f
	case domain.DatasetAttendance:
		b.Attendance = f
	case domain.DatasetSalary:
		b.Salary = f
	case domain.DatasetWifi:
		b.Wifi = f
	}
}

// Clone deep-copies every filled slot
func (b *Batch) Clone() *Batch {
	out := &Batch{}
	for _, kind := range domain.RequiredDatasets {
		if f := b.Get(kind); f != nil {
			out.Set(kind, f.Clone())
		}
	}
	return out
}

// Complete reports whether all four slots are filled
func (b *Batch) Complete() bool {
	for _, kind := range domain.RequiredDatasets {
		if b.Get(kind) == nil {
			return false
		}
	}
	return true
}

// ValidateSchema checks every dataset for its required columns. The first
// missing column, in dataset then column order, is reported.
func ValidateSchema(b *Batch) error {
	for _, kind := range domain.RequiredDatasets {
		frame := b.Get(kind)
		if frame == nil {
			return apperrors.NewMissingInputError(fmt.Sprintf("%s not uploaded", kind.DisplayName())).
				WithContext("dataset", string(kind))
		}
		for _, col := range RequiredColumns[kind] {
			if !frame.HasColumn(col) {
				return apperrors.NewSchemaError(fmt.Sprintf("Missing column '%s' in %s", col, kind.DisplayName())).
					WithContext("dataset", string(kind)).
					WithContext("column", col)
			}
		}
	}
	return nil
}
