// Package http implements the HTTP handlers of the ghost-payroll service.
// Handlers are kept thin: they parse the request, call a service and render
// the response with chi/render.
//
// # Routes
//
//	POST /api/upload/{fileType}   multipart field "file"; employee, attendance, salary or wifi
//	GET  /api/file-uploads        last five upload records, newest first
//	POST /api/analyze             run the pipeline on the current batch
//	GET  /api/analysis/{id}       a stored result, or "latest"
//	GET  /api/analysis/{id}/report  the result as ?format=csv or xlsx (default)
//	GET  /api/download-report     the latest result as an xlsx workbook
//	GET  /api/health              component health
//	GET  /api/health/live         liveness
//	GET  /api/version             build and runtime info
//	GET  /metrics                 Prometheus exposition
//	GET  /ws                      pipeline event stream (package websocket)
//
// # Error Handling
//
// The upload, analyze and download-report routes answer failures with a {"error": "..."} body
// and status 400, which is what existing clients of the service parse. All
// other routes use RFC 7807 problem details through errors.ErrorHandler.
//
// # Testing
//
// Handlers are tested with httptest against mocked services.
package http
