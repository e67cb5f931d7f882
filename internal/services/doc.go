// Package services implements the business logic layer between the HTTP
// handlers and the data-processing pipeline.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability (Reasoner)
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//
// # Components
//
//	- BatchStore: the process-wide current batch of four uploads
//	- ResultStore: recent analysis results in an LRU cache plus the latest one
//	- UploadService: parses uploads eagerly into the batch store
//	- AnalysisService: validate, normalize, reconcile, summarize, reason, trend
//	- HealthService: liveness, component health and version info
//
// # Failure policy
//
// AnalysisService never returns an error. Every failure, including a panic
// inside the pipeline, becomes an AnalysisResult whose summary describes it
// and whose collections are empty.
package services
