package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

type ClientLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults RateLimitConfig
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewClientLimiter(config RateLimitConfig) *ClientLimiter {
	return &ClientLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func (c *ClientLimiter) GetLimiter(client string) *rate.Limiter {
	c.mu.RLock()
	limiter, exists := c.limiters[client]
	c.mu.RUnlock()

	if exists {
		return limiter
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if limiter, exists = c.limiters[client]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(c.defaults.RequestsPerSecond), c.defaults.BurstSize)
	c.limiters[client] = limiter
	return limiter
}

// Allow reports whether the client may make a request right now. Losing
// callers are rejected, not queued.
func (c *ClientLimiter) Allow(client string) bool {
	return c.GetLimiter(client).Allow()
}
