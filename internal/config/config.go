// Package config provides configuration management for the application.
// It supports YAML configuration files with environment variable overrides.
package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/resumeforge/resumeforge/consts"
	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/telemetry"
)

// Default configuration values
const (
	defaultScale            = 2.0
	defaultRetryScale       = 1.0
	defaultRasterTimeout    = 45
	defaultRetryTimeout     = 60
	defaultOperationTimeout = 120
	defaultPageBudgetPx     = 1050
	defaultPageHeightPx     = 1123
	defaultPageWidthPx      = 794
	defaultSettleDelayMs    = 150
	defaultJPEGQuality      = 98
	defaultRetentionDays    = 30
	defaultOutputDir        = "./exports"
	defaultTemplateDir      = "templates"
	defaultPrometheusPort   = 9090
)

// CreditPolicy controls when the export credit is consumed relative to delivery.
type CreditPolicy string

const (
	// CreditPolicyDeliverFirst delivers the file, then consumes the credit
	// best-effort. A post-delivery credit failure is logged, never surfaced.
	CreditPolicyDeliverFirst CreditPolicy = "deliver_first"
	// CreditPolicyChargeFirst consumes the credit before rasterization.
	// A consume failure blocks the export.
	CreditPolicyChargeFirst CreditPolicy = "charge_first"
)

// ConfigPath is the default path for the configuration file
const ConfigPath = "config/resumeforge.yaml"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Export    ExportConfig     `yaml:"export"`
	Render    RenderConfig     `yaml:"render"`
	Cleanup   CleanupConfig    `yaml:"cleanup"`
	Logging   logger.Config    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	Debug       bool     `yaml:"debug"`
	CORSOrigins []string `yaml:"cors_origins"` // Allowed CORS origins whitelist

	// DefaultOwner serves requests without an X-Owner-ID header.
	// Suits single-user deployments; clear it when an auth proxy
	// fronts the service.
	DefaultOwner string `yaml:"default_owner"`
}

// ExportConfig holds export pipeline configuration
type ExportConfig struct {
	// Scale is the device scale factor of the first rasterization attempt
	Scale float64 `yaml:"scale"`
	// RetryScale is the reduced scale used for the single retry after a timeout
	RetryScale float64 `yaml:"retry_scale"`
	// RasterTimeoutSec bounds the first rasterization attempt
	RasterTimeoutSec int `yaml:"raster_timeout"`
	// RetryTimeoutSec bounds the retry attempt
	RetryTimeoutSec int `yaml:"retry_timeout"`
	// OperationTimeoutSec bounds the whole export operation
	OperationTimeoutSec int `yaml:"operation_timeout"`
	// PageBudgetPx is the content height budget for a single page, in CSS pixels.
	// Kept below the physical A4 height so near-boundary content keeps a margin.
	PageBudgetPx int `yaml:"page_budget_px"`
	// PageHeightPx is the physical A4 page height at 96dpi
	PageHeightPx int `yaml:"page_height_px"`
	// PageWidthPx is the physical A4 page width at 96dpi
	PageWidthPx int `yaml:"page_width_px"`
	// SettleDelayMs is the layout settle delay after DOM mutations
	SettleDelayMs int `yaml:"settle_delay_ms"`
	// JPEGQuality is the JPEG encode quality (1-100)
	JPEGQuality int `yaml:"jpeg_quality"`
	// CreditPolicy is deliver_first or charge_first
	CreditPolicy CreditPolicy `yaml:"credit_policy"`
	// ChromePath overrides headless Chrome binary discovery
	ChromePath string `yaml:"chrome_path"`
	// OutputDir is where one-shot CLI exports are written
	OutputDir string `yaml:"output_dir"`
}

// RenderConfig holds template rendering configuration
type RenderConfig struct {
	// TemplateDir is the directory containing resume HTML templates
	TemplateDir string `yaml:"template_dir"`
	// DefaultTemplate is used when a resume names no template
	DefaultTemplate string `yaml:"default_template"`
}

// CleanupConfig holds export record retention configuration
type CleanupConfig struct {
	Enabled       bool `yaml:"enabled"`
	RetentionDays int  `yaml:"retention_days"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:  "0.0.0.0",
			Port:  8080,
			Debug: false,
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:8080",
			},
			DefaultOwner: "local",
		},
		Export: ExportConfig{
			Scale:               defaultScale,
			RetryScale:          defaultRetryScale,
			RasterTimeoutSec:    defaultRasterTimeout,
			RetryTimeoutSec:     defaultRetryTimeout,
			OperationTimeoutSec: defaultOperationTimeout,
			PageBudgetPx:        defaultPageBudgetPx,
			PageHeightPx:        defaultPageHeightPx,
			PageWidthPx:         defaultPageWidthPx,
			SettleDelayMs:       defaultSettleDelayMs,
			JPEGQuality:         defaultJPEGQuality,
			CreditPolicy:        CreditPolicyDeliverFirst,
			OutputDir:           defaultOutputDir,
		},
		Render: RenderConfig{
			TemplateDir:     defaultTemplateDir,
			DefaultTemplate: "classic",
		},
		Cleanup: CleanupConfig{
			Enabled:       true,
			RetentionDays: defaultRetentionDays,
		},
		Logging: logger.Config{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSize:    100, // Max 100MB per log file
			MaxAge:     7,   // Retain logs for 7 days
			MaxBackups: 5,   // Keep 5 backup files
			Compress:   false,
		},
		Telemetry: telemetry.Config{
			Enabled:     false,
			ServiceName: consts.ServiceName,
			Prometheus: telemetry.PrometheusConfig{
				Enabled: false,
				Port:    defaultPrometheusPort,
			},
		},
	}
}

// Load loads configuration from a YAML file with environment variable expansion
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables in the configuration
	expanded := expandEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Exists checks if the configuration file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CreateDefault writes a default configuration file
func CreateDefault(path string) error {
	return Write(path, Default())
}

// Write writes configuration to file with the standard header comment
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(configHeader+string(data)), 0644)
}

// configHeader is the comment header for the generated configuration file
const configHeader = `# ResumeForge Configuration
#
# Environment Variable Support:
#   - Use ${VAR_NAME} syntax in values to reference environment variables
#   - Or use RF_* prefix environment variables to override:
#     RF_SERVER_HOST, RF_SERVER_PORT, RF_SERVER_DEBUG
#     RF_CHROME_PATH, RF_CREDIT_POLICY, RF_OUTPUT_DIR
#     RF_LOG_LEVEL, RF_LOG_FORMAT, RF_LOG_FILE
#     RF_TELEMETRY_ENABLED, RF_PROMETHEUS_ENABLED, RF_PROMETHEUS_PORT
#

`

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
// Supports default values via ${VAR_NAME:-default}.
func expandEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]

		if value := os.Getenv(varName); value != "" {
			return value
		}
		if len(parts) > 1 {
			return parts[1]
		}
		return ""
	})
}

// applyEnvOverrides applies RF_* environment variable overrides
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if v := os.Getenv("RF_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("RF_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("RF_SERVER_DEBUG"); v != "" {
		cfg.Server.Debug = parseBool(v)
	}
	if v := os.Getenv("RF_DEFAULT_OWNER"); v != "" {
		cfg.Server.DefaultOwner = v
	}

	// Export overrides
	if v := os.Getenv("RF_CHROME_PATH"); v != "" {
		cfg.Export.ChromePath = v
	}
	if v := os.Getenv("RF_CREDIT_POLICY"); v != "" {
		cfg.Export.CreditPolicy = CreditPolicy(v)
	}
	if v := os.Getenv("RF_OUTPUT_DIR"); v != "" {
		cfg.Export.OutputDir = v
	}

	// Logging overrides
	if v := os.Getenv("RF_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RF_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("RF_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}

	// Telemetry overrides
	if v := os.Getenv("RF_TELEMETRY_ENABLED"); v != "" {
		cfg.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("RF_PROMETHEUS_ENABLED"); v != "" {
		cfg.Telemetry.Prometheus.Enabled = parseBool(v)
	}
	if v := os.Getenv("RF_PROMETHEUS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Telemetry.Prometheus.Port = port
		}
	}
}

// parseBool parses a boolean string value
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
