package client

import (
	"net/http"
	"time"

	"movierec-web/internal/logging"

	gobreaker "github.com/sony/gobreaker/v2"
)

// newBreaker corta las llamadas al backend tras 5 fallos de transporte
// seguidos. Los status HTTP no cuentan como fallo: esos los decide cada
// operación. No reintenta nada.
func newBreaker(name string) *gobreaker.CircuitBreaker[*http.Response] {
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[circuit breaker] cambio de estado")
		},
	})
}
