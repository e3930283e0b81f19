// Package resilience provides fault tolerance patterns for external quote
// provider calls.
//
// The circuitbreaker subpackage implements a per-provider circuit breaker
// that stops calling a provider after repeated failures and probes it again
// after a cooling-off period.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.Config{Name: "alphavantage"})
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callProvider()
//	})
package resilience
