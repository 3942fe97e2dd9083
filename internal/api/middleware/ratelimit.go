package middleware

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/models"
)

// EndpointLimits is the part of the settings service the limiter reads.
type EndpointLimits interface {
	GetAPIEndpointConfig(method, endpoint string) *models.APIEndpointConfig
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware keeps one token bucket per client and route.
type RateLimiterMiddleware struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	cfg     *config.Config
	limits  EndpointLimits
	now     func() time.Time
}

func NewRateLimiterMiddleware(cfg *config.Config, limits EndpointLimits) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		clients: make(map[string]*clientLimiter),
		cfg:     cfg,
		limits:  limits,
		now:     time.Now,
	}
}

// getClientLimiter retrieves or creates the limiter for a client and route.
// A changed override replaces the bucket.
func (rm *RateLimiterMiddleware) getClientLimiter(key string, refill, burst int) *rate.Limiter {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	entry, exists := rm.clients[key]
	if !exists || entry.limiter.Burst() != burst || entry.limiter.Limit() != rate.Limit(refill) {
		entry = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(refill), burst)}
		rm.clients[key] = entry
	}
	entry.lastSeen = rm.now()
	return entry.limiter
}

// Cleanup drops entries idle for longer than idle, every interval, until ctx is done.
func (rm *RateLimiterMiddleware) Cleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rm.evict(idle); n > 0 {
				log.Printf("Rate limiter cleanup removed %d old client entries.", n)
			}
		}
	}
}

func (rm *RateLimiterMiddleware) evict(idle time.Duration) int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	count := 0
	for id, client := range rm.clients {
		if rm.now().Sub(client.lastSeen) > idle {
			delete(rm.clients, id)
			count++
		}
	}
	return count
}

// Limit creates the Gin middleware handler.
func (rm *RateLimiterMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		refill, burst := rm.cfg.RateLimitRefillRate, rm.cfg.RateLimitBucketSize
		if rm.limits != nil {
			if ep := rm.limits.GetAPIEndpointConfig(c.Request.Method, route); ep != nil && ep.RateLimit != nil {
				refill, burst = ep.RateLimit.TokenRefillRate, ep.RateLimit.BucketSize
			}
		}
		if burst <= 0 {
			c.Next()
			return
		}

		key := c.ClientIP() + "|" + c.Request.Method + " " + route
		if !rm.getClientLimiter(key, refill, burst).Allow() {
			log.Printf("rate limit exceeded for %s", key)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded", "code": "RESOURCE_EXHAUSTED"})
			return
		}
		c.Next()
	}
}
