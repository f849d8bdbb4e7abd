package middleware

import (
	"sync"
	"time"

	"github.com/kizuna-chat/kizuna-server/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimiter limits AI requests per client key. AI calls are the expensive
// path; the CRUD endpoints are left unthrottled.
type RateLimiter interface {
	Allow(clientKey string) bool
	Reset(clientKey string)
}

// ClientRateLimiter implements per-client rate limiting
type ClientRateLimiter struct {
	enabled         bool
	limiters        map[string]*rate.Limiter
	mu              sync.RWMutex
	rpm             int
	burst           int
	logger          *logrus.Logger
	cleanupInterval time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(cfg *config.Config, logger *logrus.Logger) RateLimiter {
	if !cfg.RateLimit.Enabled {
		return &ClientRateLimiter{enabled: false}
	}

	rl := &ClientRateLimiter{
		enabled:         true,
		limiters:        make(map[string]*rate.Limiter),
		rpm:             cfg.RateLimit.RequestsPerMinute,
		burst:           cfg.RateLimit.Burst,
		logger:          logger,
		cleanupInterval: 1 * time.Hour,
	}

	go rl.cleanup()

	return rl
}

// Allow checks if a client is allowed to make a request
func (r *ClientRateLimiter) Allow(clientKey string) bool {
	if !r.enabled {
		return true
	}

	limiter := r.getLimiter(clientKey)
	allowed := limiter.Allow()

	if !allowed {
		r.logger.WithField("client", clientKey).Warn("Rate limit exceeded")
	}

	return allowed
}

// Reset resets the rate limiter for a client
func (r *ClientRateLimiter) Reset(clientKey string) {
	if !r.enabled {
		return
	}

	r.mu.Lock()
	delete(r.limiters, clientKey)
	r.mu.Unlock()
}

// getLimiter gets or creates a rate limiter for a client
func (r *ClientRateLimiter) getLimiter(clientKey string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[clientKey]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := r.limiters[clientKey]; exists {
		return limiter
	}

	rps := float64(r.rpm) / 60.0
	limiter = rate.NewLimiter(rate.Limit(rps), r.burst)
	r.limiters[clientKey] = limiter

	return limiter
}

// cleanup bounds the limiter map
func (r *ClientRateLimiter) cleanup() {
	ticker := time.NewTicker(r.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.Lock()
		if len(r.limiters) > 10000 {
			r.logger.Warn("Rate limiter map size exceeded threshold, clearing")
			r.limiters = make(map[string]*rate.Limiter)
		}
		r.mu.Unlock()
	}
}
