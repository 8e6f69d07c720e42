package transport

import (
	"errors"

	"github.com/rosette-api/rosette-sdk-go/pkg/apierror"
	"github.com/rosette-api/rosette-sdk-go/pkg/config"
	"github.com/rosette-api/rosette-sdk-go/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const breakerName = "rosette"

func newBreaker(cfg config.CircuitBreaker, logger *zap.Logger, m *metrics.Collector) *gobreaker.CircuitBreaker {
	cfg = cfg.WithDefaults()
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			m.SetBreakerState(name, stateValue(to))
		},
	})
}

// stateValue maps breaker states to 0=closed, 1=half-open, 2=open.
func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func breakerError(err error, url string) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apierror.Wrap(apierror.UnknownError, "circuit breaker is open", url, err)
	}
	return err
}
