package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/m44rten1/stock-quote-cli/internal/domain/entity"
)

const alphaVantageDefaultBaseURL = "https://www.alphavantage.co/query"

// AlphaVantageConfig holds configuration for the Alpha Vantage provider.
type AlphaVantageConfig struct {
	// APIKey is the Alpha Vantage API key.
	APIKey string

	// BaseURL overrides the query endpoint, primarily for tests.
	// Default: https://www.alphavantage.co/query
	BaseURL string

	// RequestsPerSecond is the client-side rate limit. The free tier
	// allows roughly 5 requests per minute.
	// Default: 0.1
	RequestsPerSecond float64

	// Burst is the rate limiter burst capacity. Default: 1
	Burst int
}

// AlphaVantage retrieves quotes from the Alpha Vantage GLOBAL_QUOTE API.
type AlphaVantage struct {
	client  *http.Client
	config  AlphaVantageConfig
	limiter *rate.Limiter
}

// NewAlphaVantage creates an Alpha Vantage provider.
func NewAlphaVantage(client *http.Client, config AlphaVantageConfig) *AlphaVantage {
	if client == nil {
		client = http.DefaultClient
	}
	if config.BaseURL == "" {
		config.BaseURL = alphaVantageDefaultBaseURL
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 0.1
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}

	return &AlphaVantage{
		client:  client,
		config:  config,
		limiter: newLimiter(config.RequestsPerSecond, config.Burst),
	}
}

// Name returns the provider name.
func (p *AlphaVantage) Name() string { return "alphavantage" }

// globalQuoteResponse mirrors the GLOBAL_QUOTE payload. Alpha Vantage
// reports throttling and misuse through Note/Information/Error Message
// fields on an otherwise-200 response.
type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
	Note        string            `json:"Note"`
	Information string            `json:"Information"`
	ErrorMsg    string            `json:"Error Message"`
}

// GetQuote fetches the current quote for a symbol.
func (p *AlphaVantage) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	query := url.Values{}
	query.Set("function", "GLOBAL_QUOTE")
	query.Set("symbol", symbol)
	query.Set("apikey", p.config.APIKey)

	body, err := fetchBody(ctx, p.client, p.limiter, p.Name(), p.config.BaseURL+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var payload globalQuoteResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &entity.ParseError{Message: fmt.Sprintf("alphavantage: decode response: %v", err)}
	}

	switch {
	case payload.Note != "":
		return nil, &entity.ServiceError{Message: "alphavantage: throttled: " + payload.Note}
	case payload.Information != "":
		return nil, &entity.ServiceError{Message: "alphavantage: " + payload.Information}
	case payload.ErrorMsg != "":
		return nil, &entity.ServiceError{Message: "alphavantage: " + payload.ErrorMsg}
	}

	// An unknown symbol comes back as an empty Global Quote object.
	if len(payload.GlobalQuote) == 0 {
		return nil, &entity.SymbolNotFoundError{Symbol: symbol}
	}

	priceStr, ok := payload.GlobalQuote["05. price"]
	if !ok {
		return nil, &entity.ParseError{Message: "alphavantage: price field missing"}
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return nil, &entity.ParseError{Message: fmt.Sprintf("alphavantage: invalid price %q", priceStr)}
	}

	return &entity.Quote{
		Symbol:      symbol,
		Price:       price,
		Currency:    "USD",
		Provider:    p.Name(),
		RetrievedAt: time.Now(),
	}, nil
}
