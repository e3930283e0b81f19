// Package config loads application configuration for the quote tools.
// Configuration comes from an optional YAML file with environment variable
// overrides; every field has a sensible default so both CLIs run with no
// configuration at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "github.com/m44rten1/stock-quote-cli/pkg/config"
)

// Default configuration values.
const (
	DefaultMaxFailures  = 3
	DefaultResetTimeout = 10 * time.Second
	DefaultCallTimeout  = 5 * time.Second
	DefaultMaxParallel  = 4
	DefaultSchedule     = "*/5 * * * *"
	DefaultHealthPort   = 9091
)

// Duration wraps time.Duration with YAML support for values like "5s".
type Duration time.Duration

// UnmarshalYAML parses a duration string such as "5s" or "1m30s".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// BreakerSettings holds per-provider circuit breaker thresholds.
type BreakerSettings struct {
	// MaxFailures is the consecutive-failure threshold to open a circuit.
	MaxFailures int `yaml:"max_failures"`

	// ResetTimeout is how long an open circuit waits before a probe.
	ResetTimeout Duration `yaml:"reset_timeout"`
}

// ProviderSettings describes one configured quote provider.
// Kind selects the implementation; the remaining fields apply per kind.
type ProviderSettings struct {
	// Kind is one of "alphavantage", "stooq", or "scrape".
	Kind string `yaml:"kind"`

	// Name overrides the provider name (required for scrape providers).
	Name string `yaml:"name"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `yaml:"base_url"`

	// URLTemplate is the scrape page URL with a {symbol} placeholder.
	URLTemplate string `yaml:"url_template"`

	// Selector is the scrape CSS selector for the price element.
	Selector string `yaml:"selector"`

	// RequestsPerSecond is the client-side rate limit for this provider.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the rate limiter burst capacity.
	Burst int `yaml:"burst"`
}

// AppConfig is the full configuration for the quote CLI and daemon.
type AppConfig struct {
	// Breaker holds circuit breaker thresholds shared by all providers.
	Breaker BreakerSettings `yaml:"breaker"`

	// CallTimeout bounds each individual provider call.
	CallTimeout Duration `yaml:"call_timeout"`

	// MaxParallel bounds concurrent symbol fetches in batch requests.
	MaxParallel int `yaml:"max_parallel"`

	// Providers is the ordered fallback list. Order matters: the first
	// healthy provider serves the request.
	Providers []ProviderSettings `yaml:"providers"`

	// Watchlist is the set of symbols the daemon refreshes.
	Watchlist []string `yaml:"watchlist"`

	// Schedule is the daemon's cron expression.
	Schedule string `yaml:"schedule"`

	// HealthPort is the daemon's health/metrics HTTP port.
	HealthPort int `yaml:"health_port"`
}

// Default returns the built-in configuration: Alpha Vantage first (keyed
// via ALPHAVANTAGE_API_KEY), Stooq as fallback.
func Default() *AppConfig {
	return &AppConfig{
		Breaker: BreakerSettings{
			MaxFailures:  DefaultMaxFailures,
			ResetTimeout: Duration(DefaultResetTimeout),
		},
		CallTimeout: Duration(DefaultCallTimeout),
		MaxParallel: DefaultMaxParallel,
		Providers: []ProviderSettings{
			{Kind: "alphavantage", APIKeyEnv: "ALPHAVANTAGE_API_KEY"},
			{Kind: "stooq"},
		},
		Schedule:   DefaultSchedule,
		HealthPort: DefaultHealthPort,
	}
}

// Load builds the configuration from an optional YAML file and applies
// environment variable overrides. An empty path selects the defaults.
//
// Environment overrides:
//   - QUOTE_MAX_FAILURES: breaker consecutive-failure threshold
//   - QUOTE_RESET_TIMEOUT: breaker reset timeout (e.g. "10s")
//   - QUOTE_CALL_TIMEOUT: per-provider call timeout (e.g. "5s")
//   - QUOTE_MAX_PARALLEL: batch fetch parallelism
//   - QUOTE_SCHEDULE: daemon cron expression
//   - QUOTE_HEALTH_PORT: daemon health/metrics port
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path is provided by trusted source (CLI arg), not user input
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides layers environment variables over the loaded values.
func applyEnvOverrides(cfg *AppConfig) {
	cfg.Breaker.MaxFailures = pkgconfig.GetEnvInt("QUOTE_MAX_FAILURES", cfg.Breaker.MaxFailures)
	cfg.Breaker.ResetTimeout = Duration(pkgconfig.GetEnvDuration("QUOTE_RESET_TIMEOUT", time.Duration(cfg.Breaker.ResetTimeout)))
	cfg.CallTimeout = Duration(pkgconfig.GetEnvDuration("QUOTE_CALL_TIMEOUT", time.Duration(cfg.CallTimeout)))
	cfg.MaxParallel = pkgconfig.GetEnvInt("QUOTE_MAX_PARALLEL", cfg.MaxParallel)
	cfg.Schedule = pkgconfig.GetEnvString("QUOTE_SCHEDULE", cfg.Schedule)
	cfg.HealthPort = pkgconfig.GetEnvInt("QUOTE_HEALTH_PORT", cfg.HealthPort)
}

// Validate checks the configuration for internal consistency.
func (c *AppConfig) Validate() error {
	if c.Breaker.MaxFailures < 1 {
		return fmt.Errorf("breaker.max_failures must be at least 1, got %d", c.Breaker.MaxFailures)
	}
	if err := pkgconfig.ValidatePositiveDuration(time.Duration(c.Breaker.ResetTimeout)); err != nil {
		return fmt.Errorf("breaker.reset_timeout: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(time.Duration(c.CallTimeout)); err != nil {
		return fmt.Errorf("call_timeout: %w", err)
	}
	if err := pkgconfig.ValidateIntRange(c.MaxParallel, 1, 64); err != nil {
		return fmt.Errorf("max_parallel: %w", err)
	}
	if err := pkgconfig.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		return fmt.Errorf("health_port: %w", err)
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}
	for i, p := range c.Providers {
		switch p.Kind {
		case "alphavantage", "stooq":
		case "scrape":
			if p.Name == "" {
				return fmt.Errorf("providers[%d]: scrape providers require a name", i)
			}
		default:
			return fmt.Errorf("providers[%d]: unknown kind %q", i, p.Kind)
		}
	}
	return nil
}

// APIKey resolves the provider's API key from its configured environment
// variable.
func (p *ProviderSettings) APIKey() string {
	if p.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}
