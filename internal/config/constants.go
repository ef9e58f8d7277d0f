package config

import "time"

// Application constants
const (
	// Application Info
	AppName     = "ctcacbench"
	AppVersion  = "1.0.0"
	ServiceName = "ctcac-benchmarker"

	// Environment variable prefix, e.g. CTCAC_BATCH_WORKERS
	EnvPrefix = "CTCAC"

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40
	DefaultFetchRPS  = 2

	// Network Timeouts
	DefaultHTTPTimeout = 60 * time.Second
	DefaultDocTimeout  = 2 * time.Minute

	// Uploads
	DefaultMaxUploadBytes = 64 << 20

	// File Paths (relative to the base directory)
	DefaultInputDir   = "Downloaded files"
	DefaultReportsDir = "reports"
	DefaultLogsDir    = "logs"
	DefaultReportFile = "summary_output.csv"
	DefaultLogFile    = "logs/ctcacbench.log"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Source index for the 2025 third round 4% applications
	DefaultIndexURL = "https://www.treasurer.ca.gov/ctcac/2025/thirdround/4percent/application/index.asp"
)
