// Package resilience wraps calls to remote backends in circuit breakers.
package resilience

import (
	"errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"thoughtgraph/infrastructure/config"
	pkgerrors "thoughtgraph/pkg/errors"
)

// Breaker guards a remote dependency
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker creates a breaker that trips once enough requests have been seen
// and the failure ratio reaches the configured threshold.
func NewBreaker(name string, cfg config.CircuitBreaker, logger *zap.Logger) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// A missing key is an answer, not a failure of the backend.
		IsSuccessful: func(err error) bool {
			return err == nil || pkgerrors.IsNotFound(err)
		},
	})
	return &Breaker{cb: cb}
}

// Do runs fn through the breaker. While the breaker is open fn is not called
// and an UNAVAILABLE error is returned.
func (b *Breaker) Do(fn func() ([]byte, error)) ([]byte, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, pkgerrors.NewUnavailableError(b.cb.Name()).WithCause(err)
	}
	if err != nil {
		return nil, err
	}
	data, _ := result.([]byte)
	return data, nil
}

// State returns the breaker state name
func (b *Breaker) State() string {
	return b.cb.State().String()
}
