package fleet

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore manages per-rig token buckets: rig_id -> rate limiter
type RateLimiterStore struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) GetLimiter(rigID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[rigID]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[rigID] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(rigID string, rigRate rate.Limit, rigBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[rigID] = rate.NewLimiter(rigRate, rigBurst)
}

// Allow consumes one token for rigID. A nil store allows everything.
func (s *RateLimiterStore) Allow(rigID string) bool {
	if s == nil {
		return true
	}
	return s.GetLimiter(rigID).Allow()
}

func (s *RateLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
