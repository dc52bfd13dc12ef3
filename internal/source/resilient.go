package source

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/internal/resilience"
)

// Resilient retries a source and stops calling it while its breaker is open.
type Resilient struct {
	source         dataset.Source
	circuitBreaker *resilience.CircuitBreaker
	retryAttempts  int
	retryDelay     time.Duration
}

type ResilientConfig struct {
	Source        dataset.Source
	RetryAttempts int
	RetryDelay    time.Duration
	Breaker       resilience.CircuitBreakerConfig
}

func NewResilient(cfg ResilientConfig) *Resilient {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = "source"
	}

	return &Resilient{
		source:         cfg.Source,
		circuitBreaker: resilience.NewCircuitBreaker(cfg.Breaker),
		retryAttempts:  cfg.RetryAttempts,
		retryDelay:     cfg.RetryDelay,
	}
}

func (r *Resilient) Open(ctx context.Context) (io.ReadCloser, error) {
	var rc io.ReadCloser

	err := r.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		var lastErr error
		for attempt := 1; attempt <= r.retryAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			var err error
			rc, err = r.source.Open(ctx)
			if err == nil {
				return nil
			}
			// a missing source will not appear on retry
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTooLarge) {
				return err
			}

			lastErr = err
			logger.WithSource(r.source.String()).Warnf(
				"Fetch attempt %d/%d failed: %v",
				attempt, r.retryAttempts, err,
			)

			if attempt < r.retryAttempts {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(r.retryDelay):
				}
			}
		}
		return lastErr
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (r *Resilient) String() string {
	return r.source.String()
}

func (r *Resilient) CircuitState() resilience.State {
	return r.circuitBreaker.State()
}

func (r *Resilient) ResetCircuit() {
	r.circuitBreaker.Reset()
}
