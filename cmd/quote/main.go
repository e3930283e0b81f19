// Package main provides a CLI for fetching stock quotes.
// Usage: quote SYMBOL [SYMBOL...] [--config path] [--output json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/m44rten1/stock-quote-cli/internal/config"
	"github.com/m44rten1/stock-quote-cli/internal/domain/entity"
	"github.com/m44rten1/stock-quote-cli/internal/infra/provider"
	"github.com/m44rten1/stock-quote-cli/internal/observability/logging"
	"github.com/m44rten1/stock-quote-cli/internal/usecase/quote"
)

// QuoteOutput represents the JSON output format for a single quote.
type QuoteOutput struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Provider    string  `json:"provider"`
	RetrievedAt string  `json:"retrieved_at"`
}

// BatchOutput represents the JSON output format for a multi-symbol request.
type BatchOutput struct {
	Quotes []QuoteOutput     `json:"quotes"`
	Errors map[string]string `json:"errors,omitempty"`
}

func main() {
	var (
		configPath   string
		outputFormat string
		timeout      time.Duration
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML configuration file")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall request timeout")
	flag.Parse()

	symbols := flag.Args()
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "Error: At least one symbol is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: quote SYMBOL [SYMBOL...] [--config path] [--output json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  quote AAPL")
		fmt.Fprintln(os.Stderr, "  quote AAPL MSFT GOOG --output json")
		fmt.Fprintln(os.Stderr, "  quote TSLA --config quotes.yaml")
		os.Exit(1)
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	service, err := buildService(cfg, logger)
	if err != nil {
		logger.Error("failed to build quote service", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if len(symbols) == 1 {
		runSingle(ctx, service, symbols[0], outputFormat, logger)
		return
	}
	runBatch(ctx, service, symbols, outputFormat)
}

// buildService wires the configured provider chain into a quote service.
func buildService(cfg *config.AppConfig, logger *slog.Logger) (*quote.Service, error) {
	httpClient := &http.Client{Timeout: 2 * time.Duration(cfg.CallTimeout)}
	providers, err := provider.NewFactory(httpClient).Build(cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("build providers: %w", err)
	}

	serviceConfig := quote.DefaultConfig()
	serviceConfig.MaxFailures = cfg.Breaker.MaxFailures
	serviceConfig.ResetTimeout = time.Duration(cfg.Breaker.ResetTimeout)
	serviceConfig.CallTimeout = time.Duration(cfg.CallTimeout)
	serviceConfig.MaxParallel = cfg.MaxParallel

	return quote.NewService(providers, serviceConfig, logger), nil
}

func runSingle(ctx context.Context, service *quote.Service, symbol, outputFormat string, logger *slog.Logger) {
	q, err := service.GetQuote(ctx, symbol)
	if err != nil {
		logger.Error("quote retrieval failed",
			slog.String("symbol", symbol),
			slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if outputFormat == "json" {
		encodeJSON(toOutput(q))
		return
	}
	printQuote(q)
}

func runBatch(ctx context.Context, service *quote.Service, symbols []string, outputFormat string) {
	result := service.GetQuotes(ctx, symbols)

	if outputFormat == "json" {
		out := BatchOutput{Quotes: make([]QuoteOutput, 0, len(result.Quotes))}
		for _, q := range result.Quotes {
			out.Quotes = append(out.Quotes, toOutput(q))
		}
		if len(result.Errors) > 0 {
			out.Errors = make(map[string]string, len(result.Errors))
			for symbol, err := range result.Errors {
				out.Errors[symbol] = err.Error()
			}
		}
		encodeJSON(out)
	} else {
		for _, q := range result.Quotes {
			printQuote(q)
		}
		for symbol, err := range result.Errors {
			fmt.Fprintf(os.Stderr, "%s: %v\n", symbol, err)
		}
	}

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

// printQuote prints a quote in human-readable format.
func printQuote(q *entity.Quote) {
	fmt.Printf("%s: %.2f %s (via %s)\n", q.Symbol, q.Price, q.Currency, q.Provider)
}

func toOutput(q *entity.Quote) QuoteOutput {
	return QuoteOutput{
		Symbol:      q.Symbol,
		Price:       q.Price,
		Currency:    q.Currency,
		Provider:    q.Provider,
		RetrievedAt: q.RetrievedAt.UTC().Format(time.RFC3339),
	}
}

func encodeJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}
