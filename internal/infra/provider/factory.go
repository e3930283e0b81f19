package provider

import (
	"fmt"
	"net/http"

	"github.com/m44rten1/stock-quote-cli/internal/config"
	"github.com/m44rten1/stock-quote-cli/internal/usecase/quote"
)

// Factory creates quote provider instances from configuration.
// It provides a centralized way to instantiate providers with a shared,
// consistently configured HTTP client.
type Factory struct {
	client *http.Client
}

// NewFactory creates a Factory with the given HTTP client. A nil client
// falls back to http.DefaultClient inside each provider constructor.
func NewFactory(client *http.Client) *Factory {
	return &Factory{client: client}
}

// Build constructs the ordered provider chain from the configured list.
// Order is preserved: the first entry is tried first on every request.
func (f *Factory) Build(settings []config.ProviderSettings) ([]quote.Provider, error) {
	providers := make([]quote.Provider, 0, len(settings))
	for i, s := range settings {
		p, err := f.create(s)
		if err != nil {
			return nil, fmt.Errorf("providers[%d] (%s): %w", i, s.Kind, err)
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func (f *Factory) create(s config.ProviderSettings) (quote.Provider, error) {
	switch s.Kind {
	case "alphavantage":
		key := s.APIKey()
		if key == "" {
			return nil, fmt.Errorf("missing API key (set %s)", envNameOrDefault(s.APIKeyEnv))
		}
		return NewAlphaVantage(f.client, AlphaVantageConfig{
			APIKey:            key,
			BaseURL:           s.BaseURL,
			RequestsPerSecond: s.RequestsPerSecond,
			Burst:             s.Burst,
		}), nil
	case "stooq":
		return NewStooq(f.client, StooqConfig{
			BaseURL:           s.BaseURL,
			RequestsPerSecond: s.RequestsPerSecond,
			Burst:             s.Burst,
		}), nil
	case "scrape":
		return NewScrape(f.client, ScrapeConfig{
			Name:              s.Name,
			URLTemplate:       s.URLTemplate,
			Selector:          s.Selector,
			RequestsPerSecond: s.RequestsPerSecond,
			Burst:             s.Burst,
		})
	default:
		return nil, fmt.Errorf("unknown provider kind %q", s.Kind)
	}
}

func envNameOrDefault(name string) string {
	if name == "" {
		return "ALPHAVANTAGE_API_KEY"
	}
	return name
}
