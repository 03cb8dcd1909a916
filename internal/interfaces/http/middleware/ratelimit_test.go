package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBurstThenRefill(t *testing.T) {
	now := time.Now()
	rl := newRateLimiter(RateLimitConfig{RequestsPerMinute: 60, Burst: 2})
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	// 60 rpm is one token per second.
	now = now.Add(time.Second)
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
}

func TestRateLimiterPerClientIsolation(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{RequestsPerMinute: 60, Burst: 1})
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"))
}

func TestRateLimiterCapsAtBurst(t *testing.T) {
	now := time.Now()
	rl := newRateLimiter(RateLimitConfig{RequestsPerMinute: 60, Burst: 2})
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))

	// A long idle period must not accumulate beyond the burst size.
	now = now.Add(time.Hour)
	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
}

func TestRateLimiterZeroConfigUsesDefaults(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{})
	assert.Equal(t, 2.0, rl.rate)
	assert.Equal(t, 30.0, rl.burst)
}
