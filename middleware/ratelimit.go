package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterIdleAfter  = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	r       rate.Limit
	b       int
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	cl, ok := s.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(s.r, s.b)}
		s.clients[key] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (s *limiterSet) sweep(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, cl := range s.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(s.clients, k)
		}
	}
}

// RateLimit provides per-client token-bucket rate limiting: authenticated
// requests are keyed by account, others by IP. r = requests per second,
// b = burst size. Idle entries are swept until ctx is done.
func RateLimit(ctx context.Context, r rate.Limit, b int) gin.HandlerFunc {
	set := &limiterSet{clients: make(map[string]*clientLimiter), r: r, b: b}

	go func() {
		ticker := time.NewTicker(limiterSweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				set.sweep(time.Now().Add(-limiterIdleAfter))
			}
		}
	}()

	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id := GetAccountID(c); id != 0 {
			key = "account:" + strconv.FormatInt(id, 10)
		}
		if !set.get(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
