package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "GHO"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Trends    TrendsConfig    `yaml:"trends" envconfig:"TRENDS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" split_words:"true"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
	RequestTimeout  time.Duration `yaml:"request_timeout" split_words:"true"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" split_words:"true"`
	EnableCORS     bool            `yaml:"enable_cors" split_words:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true"`
	RPS     float64 `yaml:"rps" split_words:"true"`
	Burst   int     `yaml:"burst" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" split_words:"true"`
	Format      string `yaml:"format" split_words:"true"`
	Output      string `yaml:"output" split_words:"true"`
	FilePath    string `yaml:"file_path" split_words:"true"`
	Development bool   `yaml:"development" split_words:"true"`
}

// DataConfig describes the single input dataset served by the process
type DataConfig struct {
	Path    string `yaml:"path" split_words:"true"`
	Country string `yaml:"country" split_words:"true"`
	Geo     string `yaml:"geo" split_words:"true"`
}

// TrendsConfig configures the search-interest lookup
type TrendsConfig struct {
	Enabled   bool          `yaml:"enabled" split_words:"true"`
	BaseURL   string        `yaml:"base_url" split_words:"true"`
	Language  string        `yaml:"language" split_words:"true"`
	TZOffset  int           `yaml:"tz_offset" split_words:"true"`
	Timeframe string        `yaml:"timeframe" split_words:"true"`
	Timeout   time.Duration `yaml:"timeout" split_words:"true"`
	CacheSize int           `yaml:"cache_size" split_words:"true"`
	RPS       float64       `yaml:"rps" split_words:"true"`
	Burst     int           `yaml:"burst" split_words:"true"`
	UserAgent string        `yaml:"user_agent" split_words:"true"`
}

// TelemetryConfig configures OpenTelemetry exporters
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" split_words:"true"`
	EnableTracing  bool    `yaml:"enable_tracing" split_words:"true"`
	EnableMetrics  bool    `yaml:"enable_metrics" split_words:"true"`
	TraceExporter  string  `yaml:"trace_exporter" split_words:"true"`
	MetricExporter string  `yaml:"metric_exporter" split_words:"true"`
	SampleRatio    float64 `yaml:"sample_ratio" split_words:"true"`
}

// Load builds the configuration from defaults, the first config file found
// and GHO_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only GHO_<SECTION>_<FIELD> is read; unset variables leave the file and default values untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// DataPath returns the resolved dataset path
func (c *Config) DataPath() string {
	return ResolvePath(c.Data.Path)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = c.Server.ReadTimeout
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified when CORS is enabled")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}

	// JSON is the only supported log format
	c.Logging.Format = "json"

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	if strings.TrimSpace(c.Data.Path) == "" {
		return fmt.Errorf("data path must be set")
	}

	if strings.TrimSpace(c.Data.Country) == "" {
		return fmt.Errorf("data country must be set")
	}

	if c.Trends.Enabled {
		if c.Trends.BaseURL == "" {
			return fmt.Errorf("trends base url must be set when trends are enabled")
		}
		if c.Trends.Timeout <= 0 {
			return fmt.Errorf("trends timeout must be positive")
		}
		if c.Trends.CacheSize <= 0 {
			return fmt.Errorf("trends cache size must be positive")
		}
		if c.Trends.RPS <= 0 || c.Trends.Burst <= 0 {
			return fmt.Errorf("trends rps and burst must be positive")
		}
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %q", c.Telemetry.TraceExporter)
	}

	switch c.Telemetry.MetricExporter {
	case "prometheus", "none":
	default:
		return fmt.Errorf("unsupported metric exporter: %q", c.Telemetry.MetricExporter)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample ratio must be within [0, 1]")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Data: DataConfig{
			Path:    DefaultDataPath,
			Country: DefaultCountry,
			Geo:     DefaultGeo,
		},
		Trends: TrendsConfig{
			Enabled:   true,
			BaseURL:   DefaultTrendsBaseURL,
			Language:  DefaultTrendsLanguage,
			TZOffset:  DefaultTrendsTZOffset,
			Timeframe: DefaultTrendsTimeframe,
			Timeout:   DefaultTrendsTimeout,
			CacheSize: DefaultTrendsCacheSize,
			RPS:       DefaultTrendsRPS,
			Burst:     1,
			UserAgent: DefaultUserAgent,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			EnableTracing:  false,
			EnableMetrics:  true,
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
