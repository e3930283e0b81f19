package quote

import (
	"errors"

	"github.com/m44rten1/stock-quote-cli/internal/domain/entity"
)

// IsTrippable reports whether an error indicates provider or infrastructure
// trouble, as opposed to a definitive domain answer. Trippable errors count
// against a provider's circuit breaker and cause the fallback loop to
// advance; non-trippable errors stop the loop immediately.
//
// Classification over the closed error set:
//   - NetworkError, ParseError, ServiceError: trippable
//   - CircuitOpenError: trippable (normally remapped to ServiceError before
//     reaching the loop)
//   - HTTPError with status >= 500: trippable
//   - HTTPError with status < 500: definitive, not trippable
//   - SymbolNotFoundError: a valid negative answer, not trippable
//
// Errors outside the closed set are not modeled as recoverable and are
// classified as not trippable.
func IsTrippable(err error) bool {
	var apiErr entity.StockAPIError
	if !errors.As(err, &apiErr) {
		return false
	}

	switch e := apiErr.(type) {
	case *entity.NetworkError:
		return true
	case *entity.ParseError:
		return true
	case *entity.ServiceError:
		return true
	case *entity.CircuitOpenError:
		return true
	case *entity.HTTPError:
		return e.StatusCode >= 500
	case *entity.SymbolNotFoundError:
		return false
	default:
		// Unreachable: StockAPIError is sealed.
		return false
	}
}
