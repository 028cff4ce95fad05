package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/partner-center-client/pkg/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "partnercenter_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.With(metrics.Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "partnercenter_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "partnercenter_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Multiplier grows the backoff after each attempt.
	Multiplier float64

	// Jitter is the randomization factor applied to every backoff (0.2 = ±20%).
	Jitter float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		Jitter:         0.2,
	}
}

func (rc RetryConfig) newBackOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = rc.InitialBackoff
	b.MaxInterval = rc.MaxBackoff
	b.Multiplier = rc.Multiplier
	b.RandomizationFactor = rc.Jitter
	b.MaxElapsedTime = 0
	b.Reset()

	retries := rc.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// attemptFunc performs one attempt and reports the class of its failure.
type attemptFunc func(attempt int) (ErrorClass, error)

// retryWithBackoff runs fn until it succeeds, fails with a non-retryable
// class, the retry budget is spent or ctx ends.
func retryWithBackoff(ctx context.Context, rc RetryConfig, logger zerolog.Logger, fn attemptFunc) error {
	attempt := 0
	var lastClass ErrorClass

	operation := func() error {
		attempt++
		class, err := fn(attempt)
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Str("error_class", string(lastClass)).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}
		lastClass = class
		if ctx.Err() != nil || !shouldRetry(class) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		retriesTotal.WithLabelValues(string(lastClass)).Inc()
		retryBackoffSeconds.WithLabelValues(string(lastClass)).Observe(wait.Seconds())
		logger.Warn().
			Err(err).
			Str("error_class", string(lastClass)).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Retrying request after backoff")
	}

	err := backoff.RetryNotify(operation, rc.newBackOff(ctx), notify)
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Warn().
			Int("attempt", attempt).
			Msg("Context cancelled during request")
		if errors.Is(err, ctxErr) {
			return fmt.Errorf("%w: %w", ErrContextCancelled, err)
		}
		return fmt.Errorf("%w: %w", ErrContextCancelled, errors.Join(ctxErr, err))
	}

	if shouldRetry(lastClass) {
		retryExhaustedTotal.WithLabelValues(string(lastClass)).Inc()
		logger.Error().
			Err(err).
			Str("error_class", string(lastClass)).
			Int("attempts", attempt).
			Msg("Retry attempts exhausted")
		return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, attempt, err)
	}

	return err
}
