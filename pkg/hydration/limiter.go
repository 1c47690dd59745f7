package hydration

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/water-intake-service/pkg/common"
)

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterStore manages per-key rate limiters: user_id -> rate limiter
type RateLimiterStore struct {
	limiters     map[string]*keyedLimiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
	now          func() time.Time
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*keyedLimiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
		now:          time.Now,
	}
}

func (s *RateLimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.limiters[key]
	if !exists {
		entry = &keyedLimiter{limiter: rate.NewLimiter(s.defaultRate, s.defaultBurst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = s.now()
	return entry.limiter
}

func (s *RateLimiterStore) SetLimiter(key string, keyRate rate.Limit, keyBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[key] = &keyedLimiter{
		limiter:  rate.NewLimiter(keyRate, keyBurst),
		lastSeen: s.now(),
	}
}

func (s *RateLimiterStore) Allow(key string) bool {
	return s.GetLimiter(key).Allow()
}

func (s *RateLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// EvictIdle drops limiters not used for maxIdle. Custom limits set through
// SetLimiter are dropped too and fall back to the defaults on next use.
func (s *RateLimiterStore) EvictIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	evicted := 0
	for key, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, key)
			evicted++
		}
	}

	if evicted > 0 {
		common.GetLoggerWith(
			common.LoggerNameHydrationCore,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryLimiter),
		).Debug("Evicted idle rate limiters", zap.Int("evicted", evicted), zap.Int("remaining", len(s.limiters)))
	}

	return evicted
}

// RunJanitor evicts idle limiters every interval until stop is closed.
func (s *RateLimiterStore) RunJanitor(interval, maxIdle time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.EvictIdle(maxIdle)
		case <-stop:
			return
		}
	}
}
