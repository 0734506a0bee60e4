package admin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"liyu1981.xyz/home-controller-schema/pkg/common"
)

func TestRateLimiterStore_Basic(t *testing.T) {
	store := NewRateLimiterStore(1, 2)

	limiter := store.GetLimiter("10.0.0.1")
	if limiter == nil {
		t.Fatal("expected limiter, got nil")
	}
	assert.Equal(t, 1.0, float64(limiter.Limit()))
	assert.Equal(t, 2, limiter.Burst())
	assert.Same(t, limiter, store.GetLimiter("10.0.0.1"))
}

func TestRateLimiterStore_NilNeverLimits(t *testing.T) {
	var store *RateLimiterStore
	for range 100 {
		assert.True(t, store.Allow("anyone"))
	}
}

func TestRateLimiterStore_Forget(t *testing.T) {
	store := NewRateLimiterStore(1, 1)

	assert.True(t, store.Allow("a"))
	assert.False(t, store.Allow("a"))
	assert.True(t, store.Allow("b"), "clients have separate buckets")

	store.Forget("a")
	assert.Equal(t, 1, store.Len())
	assert.True(t, store.Allow("a"), "forgotten client starts with a full bucket")
}

func TestRateLimiterStore_Concurrency(t *testing.T) {
	store := NewRateLimiterStore(10, 5)
	client := uuid.NewString()

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.GetLimiter(client) == nil {
				t.Error("expected limiter, got nil")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.Len())
}

func TestRateLimiter_Enforcement(t *testing.T) {
	store := NewRateLimiterStore(2, 2) // 2 events/sec
	client := uuid.NewString()

	if !store.Allow(client) || !store.Allow(client) {
		t.Fatal("expected first two calls to be allowed")
	}
	if store.Allow(client) {
		t.Error("expected third call to be rate limited")
	}

	// Wait for refill
	time.Sleep(600 * time.Millisecond)
	if !store.Allow(client) {
		t.Error("expected one token to be available after refill")
	}
}

func TestRateLimiterStore_SweepDropsIdleClients(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewRateLimiterStore(1, 1)
	store.now = func() time.Time { return clock }

	assert.True(t, store.Allow("10.0.0.1"))
	clock = clock.Add(time.Minute)
	assert.True(t, store.Allow("10.0.0.2"))
	clock = clock.Add(30 * time.Second)

	assert.Equal(t, 1, store.Sweep(time.Minute), "only 10.0.0.1 has been idle for a minute")
	assert.Equal(t, 1, store.Len())
	assert.False(t, store.Allow("10.0.0.2"), "kept client keeps its drained bucket")

	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep(time.Minute))
	assert.Equal(t, 0, store.Len())
}

func TestRateLimiterStore_SweepEveryStopsWithContext(t *testing.T) {
	common.SetTestLoggerNop()
	store := NewRateLimiterStore(1, 1)
	store.Allow("10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.SweepEvery(ctx, time.Millisecond, 0)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SweepEvery did not return after cancel")
	}
}
