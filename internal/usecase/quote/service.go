// Package quote provides the use case for retrieving stock quotes from an
// ordered list of providers with per-provider circuit breaking and fallback.
//
// Each provider is wrapped once, at construction time, with a per-call
// timeout and a dedicated circuit breaker. A request walks the providers in
// order: trippable failures advance to the next provider, definitive
// answers (symbol not found, client-class HTTP errors) stop the walk
// immediately.
package quote

import (
	"context"
	"log/slog"
	"time"

	"github.com/m44rten1/stock-quote-cli/internal/domain/entity"
	"github.com/m44rten1/stock-quote-cli/internal/observability/metrics"
	"github.com/m44rten1/stock-quote-cli/internal/observability/tracing"
	"github.com/m44rten1/stock-quote-cli/internal/resilience/circuitbreaker"
)

// Provider is a named external source of stock quotes.
// Implementations must map every failure into the entity.StockAPIError
// taxonomy before returning: transport trouble as NetworkError or
// HTTPError, undecodable payloads as ParseError, and authoritative
// negative answers as SymbolNotFoundError.
type Provider interface {
	// Name returns the provider name for diagnostics.
	Name() string

	// GetQuote fetches the current quote for a symbol.
	GetQuote(ctx context.Context, symbol string) (*entity.Quote, error)
}

// Config holds the orchestrator configuration applied to every provider.
type Config struct {
	// MaxFailures is the consecutive-failure threshold for each provider's
	// circuit breaker.
	// Default: 3
	MaxFailures int

	// ResetTimeout is how long an open circuit waits before permitting a
	// half-open probe.
	// Default: 10 seconds
	ResetTimeout time.Duration

	// CallTimeout bounds each individual provider call. Expiry is
	// surfaced as a NetworkError and counts against the provider's breaker.
	// Default: 5 seconds
	CallTimeout time.Duration

	// MaxParallel bounds the number of concurrent provider walks in
	// GetQuotes.
	// Default: 4
	MaxParallel int

	// Clock is shared by all breakers. Default: SystemClock.
	Clock circuitbreaker.Clock

	// BreakerMetrics receives breaker state observations. Default: NoOpMetrics.
	BreakerMetrics circuitbreaker.Metrics
}

// DefaultConfig returns the reference orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		MaxFailures:  3,
		ResetTimeout: 10 * time.Second,
		CallTimeout:  5 * time.Second,
		MaxParallel:  4,
	}
}

// wrappedProvider is a provider with its timeout, breaker, and error
// mapping applied. The orchestration loop only ever sees domain errors
// from it, never breaker internals.
type wrappedProvider struct {
	name     string
	provider Provider
	breaker  *circuitbreaker.CircuitBreaker
	timeout  time.Duration
}

// Service retrieves quotes through an ordered provider list.
// It holds no mutable state of its own; all shared state lives in the
// per-provider breakers, which are independent of each other.
type Service struct {
	providers []*wrappedProvider
	config    Config
	logger    *slog.Logger
}

// NewService creates a quote service over the given providers, wrapping
// each with a per-call timeout and its own circuit breaker. Provider order
// is the fallback order.
func NewService(providers []Provider, config Config, logger *slog.Logger) *Service {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 3
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 10 * time.Second
	}
	if config.CallTimeout <= 0 {
		config.CallTimeout = 5 * time.Second
	}
	if config.MaxParallel <= 0 {
		config.MaxParallel = 4
	}
	if logger == nil {
		logger = slog.Default()
	}

	wrapped := make([]*wrappedProvider, 0, len(providers))
	for _, p := range providers {
		wrapped = append(wrapped, &wrappedProvider{
			name:     p.Name(),
			provider: p,
			timeout:  config.CallTimeout,
			breaker: circuitbreaker.New(circuitbreaker.Config{
				Name:         p.Name(),
				MaxFailures:  config.MaxFailures,
				ResetTimeout: config.ResetTimeout,
				IsTrippable:  IsTrippable,
				Clock:        config.Clock,
				Metrics:      config.BreakerMetrics,
			}),
		})
	}

	return &Service{
		providers: wrapped,
		config:    config,
		logger:    logger,
	}
}

// GetQuote retrieves a quote for the symbol from the first healthy
// provider. On success the remaining providers are not consulted. A
// trippable failure advances to the next provider; a definitive failure
// (symbol not found, client-class HTTP error) propagates immediately. If
// every provider fails with a trippable error, the last such error is
// returned.
//
// The symbol is normalized (trimmed, uppercased) before the provider walk.
// A symbol that is empty or too long after normalization returns
// *entity.ValidationError without consulting any provider; every other
// error is a StockAPIError.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	normalized, err := entity.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.GetTracer().Start(ctx, "quote.get_quote")
	quote, err := s.tryProviders(ctx, normalized)
	tracing.EndSpan(span, err)
	return quote, err
}

// tryProviders walks the provider list in order and applies the fallback
// policy described on GetQuote.
func (s *Service) tryProviders(ctx context.Context, symbol string) (*entity.Quote, error) {
	if len(s.providers) == 0 {
		return nil, &entity.ServiceError{Message: "No providers configured"}
	}

	var lastErr error
	attempted := 0
	for _, p := range s.providers {
		attempted++

		start := time.Now()
		pctx, pspan := tracing.StartProviderSpan(ctx, p.name, symbol)
		quote, err := p.getQuote(pctx, symbol)
		tracing.EndSpan(pspan, err)
		metrics.RecordProviderDuration(p.name, time.Since(start))

		if err == nil {
			metrics.RecordProviderRequest(p.name, "success")
			metrics.RecordFallbackDepth(attempted)
			s.logger.Info("quote retrieved",
				slog.String("symbol", symbol),
				slog.String("provider", p.name),
				slog.Int("attempt", attempted))
			return quote, nil
		}

		metrics.RecordProviderRequest(p.name, "failure")

		if !IsTrippable(err) {
			metrics.RecordFallbackDepth(attempted)
			s.logger.Info("provider returned definitive answer",
				slog.String("symbol", symbol),
				slog.String("provider", p.name),
				slog.Any("error", err))
			return nil, err
		}

		s.logger.Warn("provider failed, falling back",
			slog.String("symbol", symbol),
			slog.String("provider", p.name),
			slog.Any("error", err))
		lastErr = err
	}

	metrics.RecordFallbackDepth(attempted)
	return nil, lastErr
}

// BreakerStates returns a snapshot of every provider's circuit state,
// keyed by provider name. Intended for diagnostics; reading it has no
// side effects.
func (s *Service) BreakerStates() map[string]circuitbreaker.State {
	states := make(map[string]circuitbreaker.State, len(s.providers))
	for _, p := range s.providers {
		states[p.name] = p.breaker.State()
	}
	return states
}

// getQuote runs the provider call through its breaker with the per-call
// timeout applied, and remaps breaker rejections to ServiceError so
// breaker internals never escape the wrapping layer.
func (w *wrappedProvider) getQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	result, err := w.breaker.Execute(func() (interface{}, error) {
		return w.callWithTimeout(ctx, symbol)
	})
	if err != nil {
		if _, ok := err.(*entity.CircuitOpenError); ok {
			return nil, &entity.ServiceError{Message: w.name + ": circuit open"}
		}
		return nil, err
	}
	return result.(*entity.Quote), nil
}

// callWithTimeout invokes the provider under the per-call timeout,
// synthesizing a NetworkError when the timeout expires. The synthesis
// happens inside the breaker-guarded operation so a timed-out call counts
// as a trippable failure against this provider.
func (w *wrappedProvider) callWithTimeout(ctx context.Context, symbol string) (*entity.Quote, error) {
	cctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	quote, err := w.provider.GetQuote(cctx, symbol)
	if err != nil {
		if cctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, &entity.NetworkError{Message: w.name + ": request timed out"}
		}
		return nil, err
	}
	return quote, nil
}
