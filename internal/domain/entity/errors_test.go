package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestStockAPIError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  StockAPIError
		want string
	}{
		{"network", &NetworkError{Message: "connection refused"}, "network error: connection refused"},
		{"http with message", &HTTPError{StatusCode: 503, Message: "unavailable"}, "HTTP 503: unavailable"},
		{"http bare", &HTTPError{StatusCode: 404}, "HTTP 404"},
		{"parse", &ParseError{Message: "unexpected payload"}, "parse error: unexpected payload"},
		{"symbol not found", &SymbolNotFoundError{Symbol: "NOPE"}, "symbol not found: NOPE"},
		{"service", &ServiceError{Message: "alphavantage: circuit open"}, "service error: alphavantage: circuit open"},
		{"circuit open", &CircuitOpenError{Message: "stooq"}, "circuit open: stooq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStockAPIError_ErrorsAs(t *testing.T) {
	var wrapped error = &SymbolNotFoundError{Symbol: "XYZ"}

	var notFound *SymbolNotFoundError
	if !errors.As(wrapped, &notFound) {
		t.Fatal("errors.As should unwrap *SymbolNotFoundError")
	}
	if notFound.Symbol != "XYZ" {
		t.Errorf("Symbol = %q, want %q", notFound.Symbol, "XYZ")
	}

	var httpErr *HTTPError
	if errors.As(wrapped, &httpErr) {
		t.Error("errors.As should not match *HTTPError")
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "symbol", Message: "symbol is required"}
	if !strings.Contains(err.Error(), "symbol") {
		t.Errorf("Error() = %q, expected field name in message", err.Error())
	}
}
