package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Breaker.MaxFailures != 3 {
		t.Errorf("expected max failures 3, got %d", cfg.Breaker.MaxFailures)
	}
	if time.Duration(cfg.Breaker.ResetTimeout) != 10*time.Second {
		t.Errorf("expected reset timeout 10s, got %v", time.Duration(cfg.Breaker.ResetTimeout))
	}
	if time.Duration(cfg.CallTimeout) != 5*time.Second {
		t.Errorf("expected call timeout 5s, got %v", time.Duration(cfg.CallTimeout))
	}
	if len(cfg.Providers) != 2 {
		t.Fatalf("expected 2 default providers, got %d", len(cfg.Providers))
	}
	if cfg.Providers[0].Kind != "alphavantage" || cfg.Providers[1].Kind != "stooq" {
		t.Errorf("unexpected default provider order: %q, %q", cfg.Providers[0].Kind, cfg.Providers[1].Kind)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Breaker.MaxFailures != DefaultMaxFailures {
		t.Errorf("expected default max failures, got %d", cfg.Breaker.MaxFailures)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
breaker:
  max_failures: 5
  reset_timeout: 30s
call_timeout: 2s
max_parallel: 8
providers:
  - kind: stooq
  - kind: scrape
    name: example
    url_template: "https://example.com/quote/{symbol}"
    selector: ".price"
watchlist:
  - AAPL
  - MSFT
schedule: "*/10 * * * *"
health_port: 8081
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Breaker.MaxFailures != 5 {
		t.Errorf("expected max failures 5, got %d", cfg.Breaker.MaxFailures)
	}
	if time.Duration(cfg.Breaker.ResetTimeout) != 30*time.Second {
		t.Errorf("expected reset timeout 30s, got %v", time.Duration(cfg.Breaker.ResetTimeout))
	}
	if time.Duration(cfg.CallTimeout) != 2*time.Second {
		t.Errorf("expected call timeout 2s, got %v", time.Duration(cfg.CallTimeout))
	}
	if cfg.MaxParallel != 8 {
		t.Errorf("expected max parallel 8, got %d", cfg.MaxParallel)
	}
	if len(cfg.Providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(cfg.Providers))
	}
	if cfg.Providers[1].Name != "example" {
		t.Errorf("expected scrape provider name 'example', got %q", cfg.Providers[1].Name)
	}
	if len(cfg.Watchlist) != 2 || cfg.Watchlist[0] != "AAPL" {
		t.Errorf("unexpected watchlist: %v", cfg.Watchlist)
	}
	if cfg.Schedule != "*/10 * * * *" {
		t.Errorf("unexpected schedule: %q", cfg.Schedule)
	}
	if cfg.HealthPort != 8081 {
		t.Errorf("expected health port 8081, got %d", cfg.HealthPort)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "read config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("breaker: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("call_timeout: banana\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QUOTE_MAX_FAILURES", "7")
	t.Setenv("QUOTE_RESET_TIMEOUT", "1m")
	t.Setenv("QUOTE_CALL_TIMEOUT", "500ms")
	t.Setenv("QUOTE_SCHEDULE", "@hourly")
	t.Setenv("QUOTE_HEALTH_PORT", "9999")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Breaker.MaxFailures != 7 {
		t.Errorf("expected max failures 7, got %d", cfg.Breaker.MaxFailures)
	}
	if time.Duration(cfg.Breaker.ResetTimeout) != time.Minute {
		t.Errorf("expected reset timeout 1m, got %v", time.Duration(cfg.Breaker.ResetTimeout))
	}
	if time.Duration(cfg.CallTimeout) != 500*time.Millisecond {
		t.Errorf("expected call timeout 500ms, got %v", time.Duration(cfg.CallTimeout))
	}
	if cfg.Schedule != "@hourly" {
		t.Errorf("expected schedule @hourly, got %q", cfg.Schedule)
	}
	if cfg.HealthPort != 9999 {
		t.Errorf("expected health port 9999, got %d", cfg.HealthPort)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{
			name:   "zero max failures",
			mutate: func(c *AppConfig) { c.Breaker.MaxFailures = 0 },
			want:   "max_failures",
		},
		{
			name:   "negative reset timeout",
			mutate: func(c *AppConfig) { c.Breaker.ResetTimeout = Duration(-time.Second) },
			want:   "reset_timeout",
		},
		{
			name:   "zero call timeout",
			mutate: func(c *AppConfig) { c.CallTimeout = 0 },
			want:   "call_timeout",
		},
		{
			name:   "excessive parallelism",
			mutate: func(c *AppConfig) { c.MaxParallel = 1000 },
			want:   "max_parallel",
		},
		{
			name:   "privileged health port",
			mutate: func(c *AppConfig) { c.HealthPort = 80 },
			want:   "health_port",
		},
		{
			name:   "no providers",
			mutate: func(c *AppConfig) { c.Providers = nil },
			want:   "at least one provider",
		},
		{
			name:   "unknown provider kind",
			mutate: func(c *AppConfig) { c.Providers = []ProviderSettings{{Kind: "carrier-pigeon"}} },
			want:   "unknown kind",
		},
		{
			name:   "scrape without name",
			mutate: func(c *AppConfig) { c.Providers = []ProviderSettings{{Kind: "scrape"}} },
			want:   "require a name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestAPIKeyResolution(t *testing.T) {
	t.Setenv("TEST_QUOTE_API_KEY", "secret123")

	p := ProviderSettings{Kind: "alphavantage", APIKeyEnv: "TEST_QUOTE_API_KEY"}
	if got := p.APIKey(); got != "secret123" {
		t.Errorf("expected resolved key, got %q", got)
	}

	empty := ProviderSettings{Kind: "stooq"}
	if got := empty.APIKey(); got != "" {
		t.Errorf("expected empty key, got %q", got)
	}
}
