package entity

import "fmt"

// StockAPIError is the closed set of errors that quote retrieval produces.
// Every error crossing a provider or orchestrator boundary is one of the
// concrete types below; the unexported marker method keeps the set sealed
// so that classification switches stay exhaustive.
type StockAPIError interface {
	error
	stockAPIError()
}

// NetworkError indicates a transport-level failure: connection refused,
// DNS failure, or a request timeout.
type NetworkError struct {
	Message string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.Message)
}

// HTTPError indicates a non-2xx HTTP response from a provider.
// Status codes below 500 are definitive answers; 5xx indicate provider trouble.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// ParseError indicates that a provider's response could not be decoded
// into a quote.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// SymbolNotFoundError indicates that a provider answered authoritatively
// that the requested symbol does not exist. It is a valid negative domain
// answer, not a provider malfunction.
type SymbolNotFoundError struct {
	Symbol string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol not found: %s", e.Symbol)
}

// ServiceError indicates provider-side trouble that did not surface as a
// transport or HTTP failure: throttling payloads, degraded responses, or
// a provider whose circuit is currently open.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error: %s", e.Message)
}

// CircuitOpenError indicates that a circuit breaker rejected a call without
// invoking the underlying operation. It is internal to the resilience layer
// and is remapped to a ServiceError before reaching callers.
type CircuitOpenError struct {
	Message string
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit open: %s", e.Message)
}

func (*NetworkError) stockAPIError()        {}
func (*HTTPError) stockAPIError()           {}
func (*ParseError) stockAPIError()          {}
func (*SymbolNotFoundError) stockAPIError() {}
func (*ServiceError) stockAPIError()        {}
func (*CircuitOpenError) stockAPIError()    {}

// ValidationError represents an input validation error with field context.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
