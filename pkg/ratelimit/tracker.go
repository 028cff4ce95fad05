package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Sternrassler/partner-center-client/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	throttlesTotal = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "partnercenter_throttles_total",
		Help: "Total number of 429 Too Many Requests responses recorded",
	})

	throttleWaitsTotal = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "partnercenter_throttle_waits_total",
		Help: "Total number of requests delayed by an active throttle window",
	})

	throttleWaitSeconds = promauto.With(metrics.Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "partnercenter_throttle_wait_seconds",
		Help:    "Time requests spent waiting for a throttle window to pass",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})
)

// Tracker records throttle windows and delays requests until they pass.
// With a nil Redis client the state is kept in process memory.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger
	now    func() time.Time

	mu    sync.Mutex
	local State
}

// NewTracker creates a throttle tracker.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:  redisClient,
		logger: logger,
		now:    time.Now,
	}
}

// GetState returns the current throttle state.
func (t *Tracker) GetState(ctx context.Context) (*State, error) {
	if t.redis == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		state := t.local
		return &state, nil
	}

	state := &State{}

	blockedMs, err := t.redis.Get(ctx, RedisKeyBlockedUntil).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get blocked until: %w", err)
	}
	if err == nil {
		state.BlockedUntil = time.UnixMilli(blockedMs)
	}

	count, err := t.redis.Get(ctx, RedisKeyThrottleCount).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get throttle count: %w", err)
	}
	state.ThrottleCount = count

	return state, nil
}

// RecordThrottle stores the window announced by a 429 response and returns
// its length. An existing later deadline is never shortened.
func (t *Tracker) RecordThrottle(ctx context.Context, header http.Header) (time.Duration, error) {
	now := t.now()
	wait, ok := ParseRetryAfter(header, now)
	if !ok {
		wait = DefaultRetryAfter
	}
	until := now.Add(wait)

	throttlesTotal.Inc()

	if t.redis == nil {
		t.mu.Lock()
		if until.After(t.local.BlockedUntil) {
			t.local.BlockedUntil = until
		}
		t.local.ThrottleCount++
		t.mu.Unlock()
	} else if err := t.storeRedis(ctx, until, wait); err != nil {
		return wait, err
	}

	t.logger.Warn().
		Dur("retry_after", wait).
		Time("blocked_until", until).
		Msg("Partner Center throttled request")

	return wait, nil
}

func (t *Tracker) storeRedis(ctx context.Context, until time.Time, wait time.Duration) error {
	current, err := t.redis.Get(ctx, RedisKeyBlockedUntil).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("get blocked until: %w", err)
	}
	if err == nil && time.UnixMilli(current).After(until) {
		until = time.UnixMilli(current)
		wait = until.Sub(t.now())
	}

	pipe := t.redis.Pipeline()
	pipe.Set(ctx, RedisKeyBlockedUntil, strconv.FormatInt(until.UnixMilli(), 10), wait+time.Second)
	pipe.Incr(ctx, RedisKeyThrottleCount)
	pipe.Expire(ctx, RedisKeyThrottleCount, MaxRetryAfter)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store throttle state in redis: %w", err)
	}
	return nil
}

// Wait blocks until no throttle window is active or ctx is done.
// A state lookup failure is logged and the request is let through.
func (t *Tracker) Wait(ctx context.Context) error {
	state, err := t.GetState(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Msg("Throttle state lookup failed")
		return nil
	}

	now := t.now()
	if !state.IsBlocked(now) {
		return nil
	}
	wait := state.WaitDuration(now)

	throttleWaitsTotal.Inc()
	t.logger.Debug().
		Dur("wait", wait).
		Int64("throttle_count", state.ThrottleCount).
		Msg("Waiting for throttle window")

	timer := time.NewTimer(wait)
	defer timer.Stop()

	start := t.now()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		throttleWaitSeconds.Observe(t.now().Sub(start).Seconds())
		return nil
	}
}

// Reset clears the throttle state.
func (t *Tracker) Reset(ctx context.Context) error {
	if t.redis == nil {
		t.mu.Lock()
		t.local = State{}
		t.mu.Unlock()
		return nil
	}
	if err := t.redis.Del(ctx, RedisKeyBlockedUntil, RedisKeyThrottleCount).Err(); err != nil {
		return fmt.Errorf("reset throttle state: %w", err)
	}
	return nil
}
