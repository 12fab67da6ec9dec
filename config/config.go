// Package config holds the dashboard settings: YAML file, then DASHBOARD_*
// environment variables, then command-line flags (applied by the CLI).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source drivers.
const (
	DriverCSV      = "csv"
	DriverS3       = "s3"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the full process configuration.
type Config struct {
	ListenAddr     string `yaml:"listen_addr"`
	LogLevel       string `yaml:"log_level"`
	Locale         string `yaml:"locale"`
	CurrencySymbol string `yaml:"currency_symbol"`
	Source         Source `yaml:"source"`
}

// Source selects where the six tables are read from.
type Source struct {
	Driver string            `yaml:"driver"`
	Dir    string            `yaml:"dir"`
	S3     S3                `yaml:"s3"`
	DSN    string            `yaml:"dsn"`
	Tables map[string]string `yaml:"tables,omitempty"` // table name → file/object/table name
}

// S3 locates the CSV objects in a bucket.
type S3 struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// Default returns the built-in configuration: CSV files under ./tablas,
// served on :8050.
func Default() Config {
	return Config{
		ListenAddr:     ":8050",
		LogLevel:       "info",
		Locale:         "es-CO",
		CurrencySymbol: "$",
		Source: Source{
			Driver: DriverCSV,
			Dir:    "tablas",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (empty path skips it) and the environment. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := Decode(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	ApplyEnv(&cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Decode parses YAML over cfg, rejecting unknown fields.
func Decode(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from DASHBOARD_* variables:
//
//	DASHBOARD_LISTEN_ADDR, DASHBOARD_LOG_LEVEL, DASHBOARD_LOCALE,
//	DASHBOARD_CURRENCY_SYMBOL, DASHBOARD_SOURCE_DRIVER, DASHBOARD_SOURCE_DIR,
//	DASHBOARD_SOURCE_DSN, DASHBOARD_S3_BUCKET, DASHBOARD_S3_PREFIX,
//	DASHBOARD_S3_REGION, DASHBOARD_S3_ENDPOINT, DASHBOARD_S3_PATH_STYLE
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	set("DASHBOARD_LISTEN_ADDR", &cfg.ListenAddr)
	set("DASHBOARD_LOG_LEVEL", &cfg.LogLevel)
	set("DASHBOARD_LOCALE", &cfg.Locale)
	set("DASHBOARD_CURRENCY_SYMBOL", &cfg.CurrencySymbol)
	set("DASHBOARD_SOURCE_DRIVER", &cfg.Source.Driver)
	set("DASHBOARD_SOURCE_DIR", &cfg.Source.Dir)
	set("DASHBOARD_SOURCE_DSN", &cfg.Source.DSN)
	set("DASHBOARD_S3_BUCKET", &cfg.Source.S3.Bucket)
	set("DASHBOARD_S3_PREFIX", &cfg.Source.S3.Prefix)
	set("DASHBOARD_S3_REGION", &cfg.Source.S3.Region)
	set("DASHBOARD_S3_ENDPOINT", &cfg.Source.S3.Endpoint)
	if v, ok := lookup("DASHBOARD_S3_PATH_STYLE"); ok && v != "" {
		cfg.Source.S3.PathStyle = strings.EqualFold(v, "true") || v == "1"
	}
}

// Validate checks the driver and its required settings.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Source.Driver {
	case DriverCSV:
		if c.Source.Dir == "" {
			return errors.New("source.dir is required for the csv driver")
		}
	case DriverS3:
		if c.Source.S3.Bucket == "" {
			return errors.New("source.s3.bucket is required for the s3 driver")
		}
	case DriverSQLite, DriverPostgres:
		if c.Source.DSN == "" {
			return fmt.Errorf("source.dsn is required for the %s driver", c.Source.Driver)
		}
	default:
		return fmt.Errorf("unknown source driver %q", c.Source.Driver)
	}
	return nil
}

// ParseLevel maps a log level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", name)
	}
	return level, nil
}
