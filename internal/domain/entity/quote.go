// Package entity defines the core domain entities for the application.
// It contains the Quote business object, its validation rules, and the
// closed set of errors that quote retrieval can produce.
package entity

import (
	"strings"
	"time"
)

// maxSymbolLength defines the maximum allowed length for ticker symbols.
const maxSymbolLength = 12

// Quote represents a single stock quote retrieved from a provider.
type Quote struct {
	Symbol      string
	Price       float64
	Currency    string
	Provider    string
	RetrievedAt time.Time
}

// Validate checks that the quote carries a usable symbol and price.
// Returns a ValidationError describing the first failing field.
func (q *Quote) Validate() error {
	if q.Symbol == "" {
		return &ValidationError{Field: "symbol", Message: "symbol is required"}
	}
	if q.Price <= 0 {
		return &ValidationError{Field: "price", Message: "price must be positive"}
	}
	return nil
}

// NormalizeSymbol uppercases and trims a ticker symbol as entered by the user.
// Returns a ValidationError if the symbol is empty or too long.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", &ValidationError{Field: "symbol", Message: "symbol is required"}
	}
	if len(s) > maxSymbolLength {
		return "", &ValidationError{Field: "symbol", Message: "symbol is too long"}
	}
	return s, nil
}
