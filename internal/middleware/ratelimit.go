// backend/internal/middleware/ratelimit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Ayash-Bera/kuna/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// AttemptCounter counts hits per key inside a fixed window
type AttemptCounter interface {
	// Incr records one hit and returns the number of hits in the current window
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// MemoryCounter keeps counters in process memory
type MemoryCounter struct {
	visitors map[string]*Visitor
	mu       sync.Mutex
	cleanup  time.Duration // cleanup interval
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

type Visitor struct {
	windowStart time.Time
	lastSeen    time.Time
	count       int64
}

// NewMemoryCounter starts a counter with a background cleanup goroutine; call Close to stop it
func NewMemoryCounter() *MemoryCounter {
	mc := &MemoryCounter{
		visitors: make(map[string]*Visitor),
		cleanup:  time.Minute,
		now:      time.Now,
		done:     make(chan struct{}),
	}

	go mc.cleanupVisitors()

	return mc
}

func (mc *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	now := mc.now()

	mc.mu.Lock()
	defer mc.mu.Unlock()

	v, exists := mc.visitors[key]
	if !exists || now.Sub(v.windowStart) >= window {
		mc.visitors[key] = &Visitor{windowStart: now, lastSeen: now, count: 1}
		return 1, nil
	}

	v.count++
	v.lastSeen = now
	return v.count, nil
}

func (mc *MemoryCounter) Close() {
	mc.stopOnce.Do(func() { close(mc.done) })
}

// cleanupVisitors removes old visitor entries
func (mc *MemoryCounter) cleanupVisitors() {
	ticker := time.NewTicker(mc.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-mc.done:
			return
		case <-ticker.C:
			mc.mu.Lock()
			for key, v := range mc.visitors {
				if mc.now().Sub(v.lastSeen) > time.Minute*5 {
					delete(mc.visitors, key)
				}
			}
			mc.mu.Unlock()
		}
	}
}

// RedisCounter shares counters between API processes through Redis
type RedisCounter struct {
	client *redis.Client
	prefix string
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client, prefix: "kuna:login:"}
}

func (rc *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := rc.prefix + key

	count, err := rc.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", fullKey, err)
	}
	// first hit opens the window
	if count == 1 {
		if err := rc.client.Expire(ctx, fullKey, window).Err(); err != nil {
			return 0, fmt.Errorf("redis expire %s: %w", fullKey, err)
		}
	}
	return count, nil
}

// RateLimiter caps requests per client IP per window
type RateLimiter struct {
	counter AttemptCounter
	rate    int // requests per window
	window  time.Duration
	logger  *logrus.Logger
}

// NewRateLimiter allows rate requests per minute per client IP
func NewRateLimiter(counter AttemptCounter, rate int, logger *logrus.Logger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		rate:    rate,
		window:  time.Minute,
		logger:  logger,
	}
}

// RateLimit middleware function. Counter errors let the request through.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rate <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		count, err := rl.counter.Incr(c.Request.Context(), ip, rl.window)
		if err != nil {
			rl.logger.WithError(err).Warn("Rate limit counter unavailable")
			c.Next()
			return
		}

		if count > int64(rl.rate) {
			rl.logger.WithFields(logrus.Fields{
				"client_ip": ip,
				"path":      c.Request.URL.Path,
			}).Warn("Rate limit exceeded")
			c.Header("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			utils.AbortWithError(c, http.StatusTooManyRequests, "Too many login attempts, try again later")
			return
		}

		c.Next()
	}
}
