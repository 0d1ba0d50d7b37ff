package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced by hand so refill behavior is tested without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(perMinute, burst int) (*Limiter, *fakeClock) {
	config := NewConfig(perMinute, burst)
	config.CleanupInterval = 0
	limiter := NewLimiter(config)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	limiter.now = clock.Now
	return limiter, clock
}

func TestTokenBucket_TakeAndRefill(t *testing.T) {
	start := time.Now()
	bucket := newTokenBucket(3, 1.0, start)

	for i := 0; i < 3; i++ {
		allowed, _, _ := bucket.take(start)
		assert.True(t, allowed, "request %d should use the burst", i+1)
	}
	allowed, remaining, resetTime := bucket.take(start)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, start.Add(3*time.Second), resetTime)

	allowed, _, _ = bucket.take(start.Add(1100 * time.Millisecond))
	assert.True(t, allowed, "one token refills per second")
}

func TestTokenBucket_NeverExceedsCapacity(t *testing.T) {
	start := time.Now()
	bucket := newTokenBucket(2, 10.0, start)

	_, remaining, _ := bucket.take(start.Add(time.Hour))
	assert.Equal(t, 1, remaining)
}

func TestLimiter_ParseEndpoint(t *testing.T) {
	limiter, clock := newTestLimiter(60, 2)
	defer limiter.Stop()

	allowed, info := limiter.Allow("10.0.0.1", "/parse", http.MethodPost)
	assert.True(t, allowed)
	assert.Equal(t, 60, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	allowed, _ = limiter.Allow("10.0.0.1", "/parse", http.MethodPost)
	assert.True(t, allowed)

	allowed, info = limiter.Allow("10.0.0.1", "/parse", http.MethodPost)
	assert.False(t, allowed)
	assert.Equal(t, time.Second, info.RetryAfter)

	clock.Advance(time.Second)
	allowed, _ = limiter.Allow("10.0.0.1", "/parse", http.MethodPost)
	assert.True(t, allowed)
}

func TestLimiter_PrefixEndpointsShareBucket(t *testing.T) {
	limiter, _ := newTestLimiter(10, 1)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1", "/resume/a.pdf", http.MethodGet)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "/resume/b.pdf", http.MethodGet)
	assert.False(t, allowed, "switching file names does not reset the limit")
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(10, 1)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1", "/parse", http.MethodPost)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.2", "/parse", http.MethodPost)
	assert.True(t, allowed)
}

func TestLimiter_UnlimitedEndpoints(t *testing.T) {
	limiter, _ := newTestLimiter(1, 1)
	defer limiter.Stop()

	for _, tc := range []struct{ path, method string }{
		{"/health", http.MethodGet},
		{"/", http.MethodGet},
		{"/resume", http.MethodPost},
		{"/", http.MethodPost},
	} {
		for i := 0; i < 5; i++ {
			allowed, info := limiter.Allow("10.0.0.1", tc.path, tc.method)
			require.True(t, allowed, "%s %s", tc.method, tc.path)
			assert.Equal(t, 0, info.Limit)
		}
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter, _ := newTestLimiter(1, 1)
	defer limiter.Stop()
	limiter.config.Whitelist = ParseIPList("127.0.0.1, ::1")

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/parse", http.MethodPost)
		assert.True(t, allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	config := NewConfig(0, 0)
	assert.False(t, config.Enabled)

	limiter := NewLimiter(config)
	defer limiter.Stop()
	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/parse", http.MethodPost)
		assert.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(60, 20)
	defer limiter.Stop()

	var allowedCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("10.0.0.1", "/parse", http.MethodPost); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(20), allowedCount.Load(), "exactly the burst is admitted at one instant")
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter, clock := newTestLimiter(10, 1)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d", i), "/parse", http.MethodPost)
	}
	require.Len(t, limiter.buckets, 3)

	clock.Advance(30 * time.Minute)
	limiter.Allow("10.0.0.0", "/parse", http.MethodPost)
	clock.Advance(45 * time.Minute)
	limiter.cleanupBuckets()

	assert.Len(t, limiter.buckets, 1)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1", "/parse", http.MethodPost)
	assert.True(t, allowed)
}

func TestMatchEndpoint(t *testing.T) {
	configs := ParseEndpoints(10, 2)

	assert.NotNil(t, MatchEndpoint("/parse", http.MethodPost, configs))
	assert.NotNil(t, MatchEndpoint("/resume/cv.pdf", http.MethodGet, configs))
	assert.Nil(t, MatchEndpoint("/parse", http.MethodGet, configs))
	assert.Nil(t, MatchEndpoint("/resume", http.MethodPost, configs))
}
