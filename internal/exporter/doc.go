// Package exporter renders analysis results as downloadable reports.
//
// Two formats are supported:
//
//	csv   the anomaly table, UTF-8 with a BOM so Excel detects the encoding
//	xlsx  a workbook with Summary, Anomalies and Trends sheets (excelize)
//
// ReportExporter serves the HTTP report download and the --report flag of
// the analyze command.
package exporter
