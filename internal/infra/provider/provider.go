// Package provider implements concrete quote providers. Each provider
// performs its own HTTP transport and response parsing, and maps every
// failure into the entity.StockAPIError taxonomy before returning: the
// orchestrator never sees raw payloads or transport errors.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/m44rten1/stock-quote-cli/internal/domain/entity"
)

// maxResponseSize bounds provider response bodies to guard against
// pathological payloads.
const maxResponseSize = 1 << 20 // 1 MiB

// newLimiter builds a client-side token bucket limiter with safe defaults.
func newLimiter(requestsPerSecond float64, burst int) *rate.Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1.0
	}
	if burst <= 0 {
		burst = 2
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// fetchBody performs a rate-limited GET and returns the response body.
// Transport failures map to NetworkError, non-2xx statuses to HTTPError.
func fetchBody(ctx context.Context, client *http.Client, limiter *rate.Limiter, name, url string) ([]byte, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, &entity.NetworkError{Message: fmt.Sprintf("%s: rate limiter wait: %v", name, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &entity.NetworkError{Message: fmt.Sprintf("%s: build request: %v", name, err)}
	}
	req.Header.Set("User-Agent", "stock-quote-cli")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &entity.NetworkError{Message: fmt.Sprintf("%s: %v", name, err)}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &entity.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s: unexpected status", name),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &entity.NetworkError{Message: fmt.Sprintf("%s: read body: %v", name, err)}
	}
	return body, nil
}
