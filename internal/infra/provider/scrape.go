package provider

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/m44rten1/stock-quote-cli/internal/domain/entity"
)

// ScrapeConfig holds configuration for an HTML scraping provider.
// Scraping is a fallback of last resort for sources without a quote API;
// the page structure is described declaratively so a site change is a
// config change, not a code change.
type ScrapeConfig struct {
	// Name identifies the scraped source in diagnostics.
	Name string

	// URLTemplate is the page URL with a {symbol} placeholder,
	// e.g. "https://example.com/stocks/{symbol}".
	URLTemplate string

	// Selector is the CSS selector of the element holding the price.
	Selector string

	// RequestsPerSecond is the client-side rate limit. Default: 0.5
	RequestsPerSecond float64

	// Burst is the rate limiter burst capacity. Default: 1
	Burst int
}

// Validate checks that the scrape configuration is complete.
func (c *ScrapeConfig) Validate() error {
	if c.Name == "" {
		return &entity.ValidationError{Field: "name", Message: "scrape provider name is required"}
	}
	if !strings.Contains(c.URLTemplate, "{symbol}") {
		return &entity.ValidationError{Field: "url_template", Message: "url_template must contain {symbol}"}
	}
	if c.Selector == "" {
		return &entity.ValidationError{Field: "selector", Message: "selector is required"}
	}
	return nil
}

// Scrape retrieves quotes by scraping a price element out of an HTML page.
type Scrape struct {
	client  *http.Client
	config  ScrapeConfig
	limiter *rate.Limiter
}

// NewScrape creates a scraping provider. The configuration must pass
// Validate.
func NewScrape(client *http.Client, config ScrapeConfig) (*Scrape, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 0.5
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}

	return &Scrape{
		client:  client,
		config:  config,
		limiter: newLimiter(config.RequestsPerSecond, config.Burst),
	}, nil
}

// Name returns the provider name.
func (p *Scrape) Name() string { return p.config.Name }

// GetQuote fetches the page for a symbol and extracts the price element.
// A page without the configured element is treated as an authoritative
// negative answer; an element whose text is not a price is a parse failure.
func (p *Scrape) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	pageURL := strings.ReplaceAll(p.config.URLTemplate, "{symbol}", url.PathEscape(symbol))

	body, err := fetchBody(ctx, p.client, p.limiter, p.Name(), pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &entity.ParseError{Message: fmt.Sprintf("%s: parse html: %v", p.Name(), err)}
	}

	selection := doc.Find(p.config.Selector)
	if selection.Length() == 0 {
		return nil, &entity.SymbolNotFoundError{Symbol: symbol}
	}

	price, err := parsePriceText(selection.First().Text())
	if err != nil {
		return nil, &entity.ParseError{Message: fmt.Sprintf("%s: %v", p.Name(), err)}
	}

	return &entity.Quote{
		Symbol:      symbol,
		Price:       price,
		Currency:    "USD",
		Provider:    p.Name(),
		RetrievedAt: time.Now(),
	}, nil
}

// parsePriceText converts a displayed price ("$1,234.56") into a float.
func parsePriceText(text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("price element is empty")
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price text %q", text)
	}
	return price, nil
}
