package middleware

import (
	"net/http"
	"sync"
	"time"

	"amanthos/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// rateWindow is the trailing window within which requests are counted.
const rateWindow = 60 * time.Second

// Per-action request ceilings within one window, per client IP.
var actionCeilings = map[string]int{
	"booking":      5,
	"chat":         20,
	"payment_link": 10,
}

const defaultCeiling = 10

// slidingWindowStore holds a map of (ip, action) keys to request timestamps.
type slidingWindowStore struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

func newSlidingWindowStore() *slidingWindowStore {
	return &slidingWindowStore{
		hits: make(map[string][]time.Time),
		now:  time.Now,
	}
}

// allow prunes expired timestamps for the key, then admits and records the
// request if the remaining count is below the action's ceiling. Rejected
// requests are not recorded.
func (s *slidingWindowStore) allow(clientID, action string) bool {
	ceiling, ok := actionCeilings[action]
	if !ok {
		ceiling = defaultCeiling
	}

	key := clientID + ":" + action
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.hits[key][:0]
	for _, t := range s.hits[key] {
		if now.Sub(t) < rateWindow {
			kept = append(kept, t)
		}
	}
	if len(kept) >= ceiling {
		s.hits[key] = kept
		return false
	}
	s.hits[key] = append(kept, now)
	return true
}

// RateLimiter is the shared admission state behind the per-action middleware.
// Constructed once in main and handed to the route registration; there is no
// package-level instance.
type RateLimiter struct {
	store *slidingWindowStore
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{store: newSlidingWindowStore()}
}

// Limit limits requests per client IP for the given action kind.
func (rl *RateLimiter) Limit(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !rl.store.allow(ip, action) {
			utils.GetLogger().Warn("Rate limit exceeded",
				zap.String("ip", ip), zap.String("action", action))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}
		c.Next()
	}
}
