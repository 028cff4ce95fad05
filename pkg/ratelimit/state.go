// Package ratelimit tracks Partner Center throttling and gates requests.
//
// Partner Center answers 429 Too Many Requests with a Retry-After header
// when a partner exceeds its request quota. The tracker records the
// resulting deadline, in Redis when several client instances share one
// partner tenant, and makes later requests wait until it has passed.
package ratelimit

import "time"

// Redis keys for throttle state.
const (
	RedisKeyBlockedUntil  = "pc:throttle:blocked_until"
	RedisKeyThrottleCount = "pc:throttle:count"
)

// DefaultRetryAfter is assumed when a 429 carries no usable Retry-After.
const DefaultRetryAfter = 5 * time.Second

// MaxRetryAfter caps a single throttle window.
const MaxRetryAfter = 2 * time.Minute

// State is the throttle state shared by all clients of one partner tenant.
type State struct {
	// BlockedUntil is when requests may be sent again. Zero when not throttled.
	BlockedUntil time.Time `json:"blocked_until"`

	// ThrottleCount counts 429 responses seen in the current window.
	ThrottleCount int64 `json:"throttle_count"`
}

// IsBlocked reports whether requests must wait at time now.
func (s *State) IsBlocked(now time.Time) bool {
	return now.Before(s.BlockedUntil)
}

// WaitDuration returns how long a request has to wait at time now.
func (s *State) WaitDuration(now time.Time) time.Duration {
	d := s.BlockedUntil.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
