package github

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig configures request pacing against the GitHub API
type RateLimiterConfig struct {
	// RequestsPerSecond is the steady-state request rate
	RequestsPerSecond float64

	// Burst is the number of requests that may be sent back to back
	Burst int

	// MinRemaining is the quota threshold below which requests slow to
	// ReserveRate, keeping headroom for other consumers of the token
	MinRemaining int

	// ReserveRate is the request rate used once MinRemaining is crossed
	ReserveRate float64
}

// DefaultRateLimiterConfig returns a default rate limiter configuration
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
		MinRemaining:      100,
		ReserveRate:       0.5,
	}
}

// RateLimiterStats provides statistics about rate limiter usage
type RateLimiterStats struct {
	RemainingRequests int           `json:"remaining_requests"`
	ResetTime         time.Time     `json:"reset_time"`
	Throttled         bool          `json:"throttled"`
	TotalWaits        int64         `json:"total_waits"`
	TotalDelayTime    time.Duration `json:"total_delay_time"`
}

// RateLimiter paces GitHub API requests with a token bucket and reacts
// to the quota GitHub reports on every response. When the remaining
// quota runs low it drops to a reserve rate; when the quota is spent it
// holds all requests until the announced reset time.
type RateLimiter struct {
	config *RateLimiterConfig
	bucket *rate.Limiter

	mu        sync.Mutex
	remaining int
	resetTime time.Time
	throttled bool
	stats     RateLimiterStats
}

// NewRateLimiter creates a rate limiter with the given configuration
func NewRateLimiter(config *RateLimiterConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}

	return &RateLimiter{
		config:    config,
		bucket:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		remaining: 5000, // GitHub's default hourly quota
		resetTime: time.Now().Add(time.Hour),
	}
}

// Wait blocks until it's safe to make an API call
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	var hold time.Duration
	if rl.remaining <= 0 {
		hold = time.Until(rl.resetTime)
	}
	rl.mu.Unlock()

	if hold > 0 {
		rl.recordWait(hold)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(hold):
		}
	}

	start := time.Now()
	if err := rl.bucket.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); waited > time.Millisecond {
		rl.recordWait(waited)
	}
	return nil
}

// Update feeds the remaining quota and reset time reported by the API
// back into the limiter. Responses without rate limit headers carry a
// zero reset time and are ignored.
func (rl *RateLimiter) Update(remaining int, resetTime time.Time) {
	if resetTime.IsZero() {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.remaining = remaining
	rl.resetTime = resetTime
	rl.stats.RemainingRequests = remaining
	rl.stats.ResetTime = resetTime

	if remaining > 0 && remaining < rl.config.MinRemaining {
		if !rl.throttled {
			rl.bucket.SetLimit(rate.Limit(rl.config.ReserveRate))
			rl.bucket.SetBurst(1)
			rl.throttled = true
		}
	} else if rl.throttled && remaining >= rl.config.MinRemaining {
		rl.bucket.SetLimit(rate.Limit(rl.config.RequestsPerSecond))
		rl.bucket.SetBurst(rl.config.Burst)
		rl.throttled = false
	}
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() RateLimiterStats {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stats := rl.stats
	stats.Throttled = rl.throttled
	return stats
}

func (rl *RateLimiter) recordWait(d time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.stats.TotalWaits++
	rl.stats.TotalDelayTime += d
}
