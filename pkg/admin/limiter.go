package admin

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/home-controller-schema/pkg/common"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterStore keeps one token bucket per client host, so a single
// caller can't hammer apply/revert on the admin surfaces. Buckets idle for
// longer than the sweep window are dropped by Sweep.
type RateLimiterStore struct {
	limiters     map[string]*clientLimiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
	now          func() time.Time
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*clientLimiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
		now:          time.Now,
	}
}

func (s *RateLimiterStore) GetLimiter(client string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.limiters[client]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(s.defaultRate, s.defaultBurst)}
		s.limiters[client] = entry
	}
	entry.lastSeen = s.now()
	return entry.limiter
}

// Allow takes a token for client. A nil store never limits.
func (s *RateLimiterStore) Allow(client string) bool {
	if s == nil {
		return true
	}
	return s.GetLimiter(client).Allow()
}

func (s *RateLimiterStore) Forget(client string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.limiters, client)
}

// Sweep drops the buckets of clients not seen within idle and returns how
// many were dropped.
func (s *RateLimiterStore) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	dropped := 0
	for client, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, client)
			dropped++
		}
	}
	return dropped
}

// SweepEvery runs Sweep(idle) on every tick until ctx is done.
func (s *RateLimiterStore) SweepEvery(ctx context.Context, interval, idle time.Duration) {
	logger := common.GetLoggerWith(common.LoggerNameAdmin)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(idle); n > 0 {
				logger.Debug("Dropped idle rate limiters", zap.Int("dropped", n), zap.Int("kept", s.Len()))
			}
		}
	}
}

func (s *RateLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
