package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/m44rten1/stock-quote-cli/internal/domain/entity"
)

const stooqDefaultBaseURL = "https://stooq.com/q/l/"

// StooqConfig holds configuration for the Stooq provider.
type StooqConfig struct {
	// BaseURL overrides the CSV endpoint, primarily for tests.
	// Default: https://stooq.com/q/l/
	BaseURL string

	// Suffix is appended to symbols when querying; Stooq addresses US
	// listings as "aapl.us".
	// Default: ".us"
	Suffix string

	// RequestsPerSecond is the client-side rate limit. Default: 1
	RequestsPerSecond float64

	// Burst is the rate limiter burst capacity. Default: 2
	Burst int
}

// Stooq retrieves quotes from the Stooq CSV quote endpoint.
type Stooq struct {
	client  *http.Client
	config  StooqConfig
	limiter *rate.Limiter
}

// NewStooq creates a Stooq provider.
func NewStooq(client *http.Client, config StooqConfig) *Stooq {
	if client == nil {
		client = http.DefaultClient
	}
	if config.BaseURL == "" {
		config.BaseURL = stooqDefaultBaseURL
	}
	if config.Suffix == "" {
		config.Suffix = ".us"
	}

	return &Stooq{
		client:  client,
		config:  config,
		limiter: newLimiter(config.RequestsPerSecond, config.Burst),
	}
}

// Name returns the provider name.
func (p *Stooq) Name() string { return "stooq" }

// GetQuote fetches the current quote for a symbol.
//
// The endpoint answers with a two-line CSV
// (Symbol,Date,Time,Open,High,Low,Close,Volume); an unknown symbol is
// reported as "N/D" in the data columns rather than an error status.
func (p *Stooq) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	query := url.Values{}
	query.Set("s", strings.ToLower(symbol)+p.config.Suffix)
	query.Set("f", "sd2t2ohlcv")
	query.Set("h", "")
	query.Set("e", "csv")

	body, err := fetchBody(ctx, p.client, p.limiter, p.Name(), p.config.BaseURL+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil {
		return nil, &entity.ParseError{Message: fmt.Sprintf("stooq: decode csv: %v", err)}
	}
	if len(records) < 2 {
		return nil, &entity.ParseError{Message: "stooq: response has no data row"}
	}

	row := records[1]
	const closeColumn = 6
	if len(row) <= closeColumn {
		return nil, &entity.ParseError{Message: fmt.Sprintf("stooq: expected %d columns, got %d", closeColumn+1, len(row))}
	}

	closeStr := row[closeColumn]
	if closeStr == "N/D" {
		return nil, &entity.SymbolNotFoundError{Symbol: symbol}
	}

	price, err := strconv.ParseFloat(closeStr, 64)
	if err != nil {
		return nil, &entity.ParseError{Message: fmt.Sprintf("stooq: invalid close price %q", closeStr)}
	}

	return &entity.Quote{
		Symbol:      symbol,
		Price:       price,
		Currency:    "USD",
		Provider:    p.Name(),
		RetrievedAt: time.Now(),
	}, nil
}
