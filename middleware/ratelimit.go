package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariebrainware/therapist-booking/config"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Rate limiting defaults
	defaultRateLimit  = 5                // 5 attempts
	defaultRateWindow = 15 * time.Minute // per 15 minutes
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// localCounter counts hits per key when Redis is not configured.
type localCounter struct {
	mu    sync.Mutex
	store *cache.Cache
}

var (
	localCountersMu sync.Mutex
	localCounters   []*localCounter
)

func newLocalCounter(window time.Duration) *localCounter {
	l := &localCounter{store: cache.New(window, 2*window)}
	localCountersMu.Lock()
	localCounters = append(localCounters, l)
	localCountersMu.Unlock()
	return l
}

func (l *localCounter) incr(key string, window time.Duration) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, err := l.store.IncrementInt64(key, 1)
	if err != nil {
		l.store.Set(key, int64(1), window)
		return 1
	}
	return n
}

func rateLimitKey(endpoint, clientIP string) string {
	return fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)
}

// RateLimiter creates a rate limiting middleware. Counters live in Redis when
// a client is configured and in process memory otherwise.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit == 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window == 0 {
		cfg.Window = defaultRateWindow
	}
	local := newLocalCounter(cfg.Window)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path
		key := rateLimitKey(endpoint, clientIP)

		allowed, err := checkRateLimit(c.Request.Context(), key, cfg, local)
		if err != nil {
			// Redis trouble must not lock everyone out.
			util.Log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("rate limit check failed")
			c.Next()
			return
		}

		if !allowed {
			util.LogRateLimitExceeded(util.RateLimitParams{IP: clientIP, Endpoint: endpoint})
			util.CallTooManyRequests(c, util.APIErrorParams{
				Msg: "Too many requests. Please try again later.",
				Err: fmt.Errorf("rate limit exceeded"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkRateLimit returns true if the request is within the limit.
func checkRateLimit(ctx context.Context, key string, cfg RateLimitConfig, local *localCounter) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return local.incr(key, cfg.Window) <= int64(cfg.Limit), nil
	}

	pipe := rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, cfg.Window)
	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return incrCmd.Val() <= int64(cfg.Limit), nil
}

// ResetRateLimit clears the counter for clientIP on endpoint, in Redis when
// configured and in every in-process counter.
func ResetRateLimit(ctx context.Context, clientIP, endpoint string) error {
	key := rateLimitKey(endpoint, clientIP)
	localCountersMu.Lock()
	for _, l := range localCounters {
		l.store.Delete(key)
	}
	localCountersMu.Unlock()

	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	return nil
}
