package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	envVars := []string{
		"CTCAC_SERVER_ADDR", "CTCAC_SERVER_READ_TIMEOUT",
		"CTCAC_LOGGING_LEVEL", "CTCAC_LOGGING_FORMAT", "CTCAC_LOGGING_OUTPUT",
		"CTCAC_BATCH_WORKERS", "CTCAC_EXTRACTION_TOLERANCE",
		"CTCAC_EXTRACTION_UNIT_LABELS", "CTCAC_EXTRACTION_UNIT_MAX",
	}

	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":8080", cfg.Server.Addr)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, 3, cfg.Extraction.RowWindow)
				assert.Equal(t, 30, cfg.Extraction.ColWindow)
				assert.Equal(t, 1.00, cfg.Extraction.Tolerance)
				assert.Equal(t, []int{17, 2}, cfg.Extraction.AmountColumns)
				assert.Len(t, cfg.Extraction.Sections, 4)
				assert.GreaterOrEqual(t, cfg.Batch.Workers, 1)
			},
		},
		{
			name: "custom environment variables",
			setupEnv: func(t *testing.T) {
				t.Setenv("CTCAC_SERVER_ADDR", ":9090")
				t.Setenv("CTCAC_SERVER_READ_TIMEOUT", "45s")
				t.Setenv("CTCAC_LOGGING_LEVEL", "debug")
				t.Setenv("CTCAC_LOGGING_FORMAT", "text")
				t.Setenv("CTCAC_BATCH_WORKERS", "3")
				t.Setenv("CTCAC_EXTRACTION_TOLERANCE", "5")
				t.Setenv("CTCAC_EXTRACTION_UNIT_LABELS", "total units,unit count")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":9090", cfg.Server.Addr)
				assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format) // forced to json
				assert.Equal(t, 3, cfg.Batch.Workers)
				assert.Equal(t, 5.0, cfg.Extraction.Tolerance)
				assert.Equal(t, []string{"total units", "unit count"}, cfg.Extraction.UnitLabels)
			},
		},
		{
			name: "invalid log level",
			setupEnv: func(t *testing.T) {
				t.Setenv("CTCAC_LOGGING_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "zero workers",
			setupEnv: func(t *testing.T) {
				t.Setenv("CTCAC_BATCH_WORKERS", "0")
			},
			wantErr: true,
		},
		{
			name: "unit max below unit min",
			setupEnv: func(t *testing.T) {
				t.Setenv("CTCAC_EXTRACTION_UNIT_MAX", "0.5")
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			setupEnv: func(t *testing.T) {
				t.Setenv("CTCAC_SERVER_READ_TIMEOUT", "-5s")
			},
			wantErr: true,
		},
		{
			name: "config file with environment override",
			setupEnv: func(t *testing.T) {
				t.Setenv("CTCAC_LOGGING_LEVEL", "warn")
			},
			fileContent: `
server:
  addr: ":6060"
logging:
  level: error
extraction:
  tolerance: 25
  row_window: 5
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":6060", cfg.Server.Addr)     // from file
				assert.Equal(t, "warn", cfg.Logging.Level)     // from env
				assert.Equal(t, 25.0, cfg.Extraction.Tolerance) // from file
				assert.Equal(t, 5, cfg.Extraction.RowWindow)
				assert.Equal(t, 30, cfg.Extraction.ColWindow) // default kept
				assert.Len(t, cfg.Extraction.Sections, 4)
			},
		},
		{
			name: "config file replaces sections",
			fileContent: `
extraction:
  sections:
    - kind: construction
      anchors: ["Const Fees"]
      totals: ["Total Const Fees"]
    - kind: permanent
      anchors: ["Perm Fees"]
      totals: ["Total Perm Fees"]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Extraction.Sections, 2)
				sec, ok := cfg.Extraction.Section(SectionConstruction)
				require.True(t, ok)
				assert.Equal(t, []string{"Const Fees"}, sec.Anchors)
				_, ok = cfg.Extraction.Section(SectionNewConstruction)
				assert.False(t, ok)
			},
		},
		{
			name: "config file missing permanent section",
			fileContent: `
extraction:
  sections:
    - kind: construction
      anchors: ["Const Fees"]
      totals: ["Total Const Fees"]
`,
			wantErr: true,
		},
		{
			name:        "invalid YAML syntax",
			fileContent: "invalid: yaml: content: [unclosed",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, envVar := range envVars {
				t.Setenv(envVar, "")
				os.Unsetenv(envVar)
			}
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}

			// Point at a file inside the temp dir so a stray config.yaml in
			// the package directory is never picked up
			path := filepath.Join(t.TempDir(), "config.yaml")
			content := tt.fileContent
			if content == "" {
				content = "{}\n"
			}
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestValidateLoggingNormalization(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestExtractionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ExtractionConfig)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*ExtractionConfig) {},
		},
		{
			name: "duplicate section",
			mutate: func(e *ExtractionConfig) {
				e.Sections = append(e.Sections, e.Sections[0])
			},
			wantErr: "duplicate section",
		},
		{
			name: "missing construction",
			mutate: func(e *ExtractionConfig) {
				e.Sections = e.Sections[1:]
			},
			wantErr: "missing required section",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := DefaultExtraction()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultExtractionSectionsAreIndependent(t *testing.T) {
	a := DefaultExtraction()
	b := DefaultExtraction()

	nc, _ := a.Section(SectionNewConstruction)
	nc.Categories[0].Name = "Changed"

	rehab, _ := b.Section(SectionRehabilitation)
	assert.Equal(t, "Site Work", rehab.Categories[0].Name)
}
