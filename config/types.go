package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	ComicVine ComicVineConfig `mapstructure:"comicvine"`
	Output    OutputConfig    `mapstructure:"output"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ComicVineConfig holds the API connection details
type ComicVineConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
	TypesTTL  time.Duration `mapstructure:"types_ttl"`
	UserAgent string        `mapstructure:"user_agent"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	Limit       int    `mapstructure:"limit"`
	ShowDetails bool   `mapstructure:"show_details"`
}

// FilterConfig contains named filter presets
type FilterConfig struct {
	Presets           map[string]string `mapstructure:"presets"`
	DefaultExpression string            `mapstructure:"default_expression"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
