// Package dataprocessing turns the four workforce uploads into a single
// reconciled view and derives the inputs and outputs around the reasoning call.
//
// # Architecture
//
// The package is organized as a fixed pipeline:
//
// 1. Loader: reads CSV or XLSX uploads into a Frame
// 2. Schema validation: checks required columns per dataset
// 3. TemporalNormalizer: converts date/time columns, nulling what does not parse
// 4. Reconciler: three hash joins keyed on employee and day/month
// 5. Summarizer: aggregate metrics plus CSV samples for the prompt
// 6. DeriveTrends: anomalies bucketed by hire year
//
// # Usage
//
//	batch := &dataprocessing.Batch{Employee: emp, Attendance: att, Salary: sal, Wifi: wifi}
//	if err := dataprocessing.ValidateSchema(batch); err != nil {
//	    return err
//	}
//	dataprocessing.NewTemporalNormalizer(logger, nil).Normalize(ctx, batch)
//	merged, err := dataprocessing.NewReconciler(logger).Reconcile(ctx, batch)
//
// # Data Flow
//
//	Upload → Frame → ValidateSchema → Normalize → Reconcile → Summarize → (reasoning) → DeriveTrends
//
// # Joins
//
// HashJoin matches composite keys on their canonical text. A null key
// component never matches anything, but outer and left joins still keep the
// row. Each output row records which source datasets contributed to it.
package dataprocessing
