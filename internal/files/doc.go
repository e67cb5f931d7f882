// Package files discovers dataset files on disk.
//
// The analyze command accepts a --dir flag instead of one flag per dataset;
// Discovery then assigns the CSV and XLSX files of that directory to the
// employee, attendance, salary and Wi-Fi datasets by filename:
//
//	discovery := files.NewDiscovery(".")
//	found, err := discovery.FindDatasets("exports/2024-06")
//	// found[domain.DatasetSalary].Path == "exports/2024-06/payroll_june.xlsx"
package files
