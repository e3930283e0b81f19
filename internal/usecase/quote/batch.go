package quote

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/m44rten1/stock-quote-cli/internal/domain/entity"
)

// BatchResult holds the outcome of a multi-symbol quote request.
// Quotes preserves the order of the requested symbols; a symbol whose
// retrieval failed appears in Errors instead.
type BatchResult struct {
	Quotes []*entity.Quote
	Errors map[string]error
}

// GetQuotes retrieves quotes for several symbols concurrently, walking the
// provider list independently for each symbol. Per-symbol failures do not
// abort the batch. Concurrency is bounded by Config.MaxParallel.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) *BatchResult {
	result := &BatchResult{
		Errors: make(map[string]error),
	}
	quotes := make([]*entity.Quote, len(symbols))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxParallel)

	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			quote, err := s.GetQuote(gctx, symbol)
			if err != nil {
				mu.Lock()
				result.Errors[symbol] = err
				mu.Unlock()
				return nil // per-symbol failures are collected, not fatal
			}
			quotes[i] = quote
			return nil
		})
	}

	// Workers only return nil; Wait is for completion, not error handling.
	_ = g.Wait()

	for _, q := range quotes {
		if q != nil {
			result.Quotes = append(result.Quotes, q)
		}
	}
	return result
}
