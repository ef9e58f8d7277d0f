package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Batch      BatchConfig      `yaml:"batch" envconfig:"BATCH"`
	Extraction ExtractionConfig `yaml:"extraction" envconfig:"EXTRACTION"`
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Fetch      FetchConfig      `yaml:"fetch" envconfig:"FETCH"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console stdout file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir" envconfig:"BASE_DIR"`
	InputDir     string `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`
	DownloadsDir string `yaml:"downloads_dir" envconfig:"DOWNLOADS_DIR" validate:"required"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
	ReportFile   string `yaml:"report_file" envconfig:"REPORT_FILE" validate:"required"`
}

// BatchConfig controls the document worker pool
type BatchConfig struct {
	Workers    int           `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=256"`
	DocTimeout time.Duration `yaml:"doc_timeout" envconfig:"DOC_TIMEOUT" validate:"min=0"`
	Detailed   bool          `yaml:"detailed" envconfig:"DETAILED"`
	BOMPrefix  bool          `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr            string          `yaml:"addr" envconfig:"ADDR" validate:"required"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxUploadBytes  int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"min=1024"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"min=1"`
}

// FetchConfig controls the application index downloader
type FetchConfig struct {
	IndexURL   string        `yaml:"index_url" envconfig:"INDEX_URL" validate:"omitempty,url"`
	Extensions []string      `yaml:"extensions" envconfig:"EXTENSIONS" validate:"min=1,dive,required"`
	RPS        float64       `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	UserAgent  string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// TelemetryConfig controls metrics and tracing
type TelemetryConfig struct {
	Enabled        bool    `yaml:"enabled" envconfig:"ENABLED"`
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceToStdout  bool    `yaml:"trace_to_stdout" envconfig:"TRACE_TO_STDOUT"`
	TraceSampling  float64 `yaml:"trace_sampling" envconfig:"TRACE_SAMPLING" validate:"min=0,max=1"`
	MetricsEnabled bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// Load loads configuration from defaults, an optional YAML file and the
// environment, in that order of precedence (environment wins).
// An empty path searches the usual locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg. Keys missing from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes logging output
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "console" {
		c.Logging.Output = "stdout"
	}
	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return c.Extraction.Validate()
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "stdout",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			InputDir:     DefaultInputDir,
			DownloadsDir: DefaultInputDir,
			ReportsDir:   DefaultReportsDir,
			LogsDir:      DefaultLogsDir,
			ReportFile:   DefaultReportFile,
		},
		Batch: BatchConfig{
			Workers:    runtime.NumCPU(),
			DocTimeout: DefaultDocTimeout,
		},
		Extraction: DefaultExtraction(),
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  DefaultMaxUploadBytes,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Fetch: FetchConfig{
			IndexURL:   DefaultIndexURL,
			Extensions: []string{".xlsx", ".xlsm", ".xls"},
			RPS:        DefaultFetchRPS,
			Timeout:    DefaultHTTPTimeout,
			UserAgent:  AppName + "/" + AppVersion,
		},
		Telemetry: TelemetryConfig{
			Enabled:        true,
			ServiceName:    ServiceName,
			TraceSampling:  1.0,
			MetricsEnabled: true,
		},
	}
}
