// Package config loads residents settings from defaults, a YAML file,
// environment variables and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"time"
)

// Defaults.
const (
	DefaultDataPath       = "Singapore_Residents.csv"
	DefaultAddr           = ":8080"
	DefaultGrowthCategory = "Total Residents"
	DefaultCacheTTL       = 10 * time.Minute
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultOutput         = "table"
	EnvPrefix             = "RESIDENTS_"
)

// DefaultRatioYears are the census years the gender-ratio view samples.
var DefaultRatioYears = []int{2000, 2003, 2006, 2009, 2012}

// Output formats for terminal reports.
var outputFormats = map[string]bool{"table": true, "json": true, "csv": true, "markdown": true}

// Config holds all runtime options.
type Config struct {
	DataPath        string        `koanf:"data"`
	Addr            string        `koanf:"addr"`
	Watch           bool          `koanf:"watch"`
	RatioYears      []int         `koanf:"ratio_years"`
	RatioPrecision  int           `koanf:"ratio_precision"`
	GrowthPrecision int           `koanf:"growth_precision"`
	GrowthCategory  string        `koanf:"growth_category"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	Output          string        `koanf:"output"`
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("data is required")
	}
	if c.RatioPrecision < 0 {
		return fmt.Errorf("ratio_precision must be >= 0, got %d", c.RatioPrecision)
	}
	if c.GrowthPrecision < 0 {
		return fmt.Errorf("growth_precision must be >= 0, got %d", c.GrowthPrecision)
	}
	if c.GrowthCategory == "" {
		return fmt.Errorf("growth_category is required")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if !outputFormats[c.Output] {
		return fmt.Errorf("output must be one of table, json, csv, markdown, got %q", c.Output)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
