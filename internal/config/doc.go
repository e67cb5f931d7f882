// Package config loads the ghost-payroll service configuration.
//
// # Configuration Sources
//
// Values are layered in the following order, later sources winning:
//
//	1. Default() values
//	2. A YAML file (config.yaml or configs/config.yaml, or the path passed to LoadFrom)
//	3. A .env file in the working directory, if present
//	4. Environment variables prefixed with GHOSTPAYROLL_
//
// # Environment Variables
//
// Nested sections map to underscore-joined names:
//
//	GHOSTPAYROLL_SERVER_PORT=8080
//	GHOSTPAYROLL_REASONING_PROVIDER=gemini
//	GHOSTPAYROLL_REASONING_MIN_INTERVAL=10s
//	GHOSTPAYROLL_ANALYSIS_SAMPLE_ROWS=5
//
// GEMINI_API_KEY is honoured when GHOSTPAYROLL_REASONING_API_KEY is unset.
//
// # Validation
//
// The merged configuration is checked with go-playground/validator struct
// tags before it is returned.
package config
