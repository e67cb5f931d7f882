package config

import "time"

// Application constants
const (
	AppName    = "Ghost Payroll Detector"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable read by Load
	EnvPrefix = "GHOSTPAYROLL"

	// Fallback key variable used when the prefixed one is unset
	GeminiAPIKeyEnv = "GEMINI_API_KEY"

	// SecretPassphraseEnv opens sealed secrets in the config
	SecretPassphraseEnv = EnvPrefix + "_SECURITY_SECRET_PASSPHRASE"

	DefaultReasoningModel = "gemini-1.5-flash"
	DefaultMinInterval    = 10 * time.Second

	// Upload limits
	MaxUploadBytes     = 32 << 20
	RecentUploadsLimit = 5

	// Analysis defaults
	DefaultSampleRows       = 5
	DefaultMergedSampleRows = 10
	DefaultTrendYears       = 10
	DefaultResultHistory    = 16
)
