package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- RateLimiter ---

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result := rl.Check(ctx, "nominatim")
		assert.True(t, result.Allowed, "call %d should be allowed", i+1)
	}
}

func TestRateLimiterDeniesOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	ctx := context.Background()

	rl.Check(ctx, "nominatim")
	rl.Check(ctx, "nominatim")

	result := rl.Check(ctx, "nominatim")
	require.False(t, result.Allowed)
	assert.Equal(t, "rate_limiter", result.Guard)
	assert.Contains(t, result.Reason, "rate limit exceeded")
}

func TestRateLimiterIsolatesKeys(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	ctx := context.Background()

	assert.True(t, rl.Check(ctx, "primary").Allowed)
	assert.False(t, rl.Check(ctx, "primary").Allowed)
	assert.True(t, rl.Check(ctx, "fallback").Allowed)
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	ctx := context.Background()

	assert.True(t, rl.Check(ctx, "k").Allowed)
	assert.False(t, rl.Check(ctx, "k").Allowed)

	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Check(ctx, "k").Allowed)
}

// --- CircuitBreaker ---

func TestCircuitOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)
	ctx := context.Background()

	assert.True(t, cb.Check(ctx, "nominatim").Allowed)
	cb.RecordFailure("nominatim")
	cb.RecordFailure("nominatim")

	result := cb.Check(ctx, "nominatim")
	require.False(t, result.Allowed)
	assert.Equal(t, "circuit_breaker", result.Guard)
}

func TestCircuitResetsAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)
	ctx := context.Background()

	cb.Check(ctx, "k")
	cb.RecordFailure("k")
	require.False(t, cb.Check(ctx, "k").Allowed)

	time.Sleep(20 * time.Millisecond)
	assert.True(t, cb.Check(ctx, "k").Allowed, "half-open probe should be allowed")

	cb.RecordSuccess("k")
	assert.True(t, cb.Check(ctx, "k").Allowed, "circuit should close after probe success")
}

func TestCircuitSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)
	ctx := context.Background()

	cb.Check(ctx, "k")
	cb.RecordFailure("k")
	cb.RecordSuccess("k")
	cb.RecordFailure("k")

	assert.True(t, cb.Check(ctx, "k").Allowed)
}

// --- TTLCache ---

func TestTTLCacheHitWithinTTL(t *testing.T) {
	c := NewTTLCache[string, int](time.Minute)
	c.Set("court-1", 42)

	v, ok := c.Get("court-1")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestTTLCacheMissAfterExpiry(t *testing.T) {
	c := NewTTLCache[string, int](10 * time.Millisecond)
	c.Set("court-1", 42)

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("court-1")
	assert.False(t, ok)
}

func TestTTLCacheInvalidate(t *testing.T) {
	c := NewTTLCache[string, int](time.Minute)
	c.Set("court-1", 42)
	c.Invalidate("court-1")

	_, ok := c.Get("court-1")
	assert.False(t, ok)
}

func TestTTLCachePurge(t *testing.T) {
	c := NewTTLCache[string, int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.False(t, okA)
	assert.False(t, okB)
}
