package testutil

// WorkforceFixtures is a small, self-consistent batch of the four uploads.
//
// E001 is a regular employee with matching attendance, Wi-Fi and salary rows.
// E002 is paid but never attends or connects. E003 attends without any Wi-Fi
// session on one of the days.
type WorkforceFixtures struct {
	EmployeeCSV   string
	AttendanceCSV string
	SalaryCSV     string
	WifiCSV       string
}

// NewWorkforceFixtures returns the default fixture batch
func NewWorkforceFixtures() *WorkforceFixtures {
	return &WorkforceFixtures{
		EmployeeCSV: `emp_id,employee_name,department,designation,joining_date,employment_status,base_salary
E001,Alice Moyo,Finance,Analyst,2020-03-01,active,52000
E002,Bob Kariuki,Operations,Clerk,2015-07-15,active,31000
E003,Carol Njeri,Engineering,Engineer,2021-01-10,active,64000
`,
		AttendanceCSV: `emp_id,attendance_date,check_in_time,check_out_time,work_mode
E001,2024-01-15,2024-01-15 09:00:00,2024-01-15 17:00:00,office
E001,2024-01-16,2024-01-16 09:30:00,2024-01-16 17:30:00,office
E003,2024-01-15,2024-01-15 08:00:00,2024-01-15 12:00:00,office
`,
		SalaryCSV: `emp_id,payroll_month,net_salary,payment_date
E001,2024-01,4000,2024-01-31
E002,2024-01,2500,2024-01-31
E003,2024-01,5000,2024-01-31
`,
		WifiCSV: `emp_id,connection_date,device_mac,connection_time,disconnection_time
E001,2024-01-15,AA:BB:CC:00:00:01,2024-01-15 09:01:00,2024-01-15 16:58:00
E001,2024-01-16,AA:BB:CC:00:00:01,2024-01-16 09:31:00,2024-01-16 17:29:00
`,
	}
}

// Files returns the fixture bodies keyed by upload slot name
func (f *WorkforceFixtures) Files() map[string]string {
	return map[string]string{
		"employee":   f.EmployeeCSV,
		"attendance": f.AttendanceCSV,
		"salary":     f.SalaryCSV,
		"wifi":       f.WifiCSV,
	}
}
