package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/comicvine/comicvine"
)

// EnvPrefix prefixes every environment override, e.g. COMICVINE_LOGGING_LEVEL.
const EnvPrefix = "COMICVINE"

// OutputFormats lists the accepted values of output.format.
var OutputFormats = []string{"tree", "table", "json", "yaml"}

// Load loads the configuration from file and environment. Without an explicit
// path a missing config file is not an error, so the API key may come from
// COMICVINE_API_KEY alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("comicvine.api_key", EnvPrefix+"_API_KEY", EnvPrefix+"_COMICVINE_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".comicvine"))
		}
		v.AddConfigPath("/etc/comicvine/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Comic Vine defaults
	v.SetDefault("comicvine.url", comicvine.APIURL)
	v.SetDefault("comicvine.timeout", comicvine.DefaultTimeout)
	v.SetDefault("comicvine.retries", 0)
	v.SetDefault("comicvine.rate_limit", 0.0)
	v.SetDefault("comicvine.burst", 1)
	v.SetDefault("comicvine.types_ttl", comicvine.DefaultTypesTTL)
	v.SetDefault("comicvine.user_agent", comicvine.DefaultUserAgent)

	// Output defaults
	v.SetDefault("output.format", "tree")
	v.SetDefault("output.limit", 10)
	v.SetDefault("output.show_details", true)

	v.SetDefault("filter.default_expression", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.ComicVine.APIKey == "" || cfg.ComicVine.APIKey == "your-api-key-here" {
		return fmt.Errorf("comicvine.api_key must be set to a valid API key")
	}

	if cfg.ComicVine.URL == "" {
		return fmt.Errorf("comicvine.url is required")
	}

	if cfg.ComicVine.Timeout < 0 || cfg.ComicVine.TypesTTL < 0 {
		return fmt.Errorf("comicvine.timeout and comicvine.types_ttl must not be negative")
	}

	if cfg.ComicVine.Retries < 0 {
		return fmt.Errorf("comicvine.retries must not be negative: %d", cfg.ComicVine.Retries)
	}

	if cfg.ComicVine.RateLimit < 0 || cfg.ComicVine.Burst < 0 {
		return fmt.Errorf("comicvine.rate_limit and comicvine.burst must not be negative")
	}

	if !slices.Contains(OutputFormats, cfg.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of %s)", cfg.Output.Format, strings.Join(OutputFormats, ", "))
	}

	if cfg.Output.Limit < 1 || cfg.Output.Limit > 100 {
		return fmt.Errorf("output.limit must be between 1 and 100: %d", cfg.Output.Limit)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	return nil
}

// ClientOptions converts the connection settings into client options.
func (c ComicVineConfig) ClientOptions() []comicvine.Option {
	opts := []comicvine.Option{
		comicvine.WithBaseURL(c.URL),
		comicvine.WithTimeout(c.Timeout),
		comicvine.WithRetries(c.Retries),
		comicvine.WithTypesTTL(c.TypesTTL),
		comicvine.WithUserAgent(c.UserAgent),
	}
	if c.RateLimit > 0 {
		opts = append(opts, comicvine.WithRateLimit(c.RateLimit, c.Burst))
	}
	return opts
}
