// Package ratelimit implements upstream request-quota tracking and request
// gating. It monitors the RateLimit-Remaining and RateLimit-Reset response
// headers and slows or blocks outgoing requests before the upstream starts
// rejecting them.
package ratelimit

import (
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyRemaining      = "listapi:rate_limit:remaining"
	RedisKeyResetTimestamp = "listapi:rate_limit:reset_timestamp"
	RedisKeyLastUpdate     = "listapi:rate_limit:last_update"
)

// Thresholds for rate limit decisions.
const (
	// RemainingCritical blocks all requests when the remaining quota falls
	// below this value, so the upstream never starts returning 429s.
	RemainingCritical = 5

	// RemainingWarning applies throttling when the remaining quota falls
	// below this value.
	RemainingWarning = 20

	// RemainingHealthy indicates normal operation; at or above this value no
	// restrictions apply.
	RemainingHealthy = 50
)

// State represents the current upstream rate limit state.
// The state is shared across all client instances via Redis.
type State struct {
	// Remaining is the number of requests left in the current window,
	// from the RateLimit-Remaining header.
	Remaining int `json:"remaining"`

	// ResetAt is when the rate limit window resets, from the
	// RateLimit-Reset header (unix timestamp).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was last refreshed from headers.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when Remaining >= RemainingHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state data is older than the given duration.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked.
func (s *State) NeedsCriticalBlock() bool {
	return s.Remaining < RemainingCritical
}

// NeedsThrottling returns true if requests should be throttled.
func (s *State) NeedsThrottling() bool {
	return s.Remaining < RemainingWarning && !s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the rate limit window resets.
// Returns 0 if the reset time has already passed.
func (s *State) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field from the current Remaining value.
func (s *State) UpdateHealth() {
	s.IsHealthy = s.Remaining >= RemainingHealthy
}
