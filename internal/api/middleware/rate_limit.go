package middleware

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/redisstore"
	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter 依 key 決定是否放行
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// visitor 單一來源的令牌桶
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter 以每個 key 一個令牌桶實作的行程內限流器
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	window   time.Duration
	now      func() time.Time
}

// NewMemoryLimiter 每個 window 允許 requests 次請求
func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    requests,
		window:   window,
		now:      time.Now,
	}
}

// Allow 檢查是否允許請求
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := l.now()

	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.pruneLocked(now)
	l.mu.Unlock()

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, l.window, nil
	}
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// pruneLocked 移除閒置超過兩個視窗的來源
func (l *MemoryLimiter) pruneLocked(now time.Time) {
	if len(l.visitors) < 1024 {
		return
	}
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > 2*l.window {
			delete(l.visitors, k)
		}
	}
}

// RedisLimiter 以 Redis 固定視窗計數實作的共享限流器
type RedisLimiter struct {
	store    *redisstore.Store
	requests int
	window   time.Duration
}

// NewRedisLimiter 每個 window 允許 requests 次請求
func NewRedisLimiter(store *redisstore.Store, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		store:    store,
		requests: requests,
		window:   window,
	}
}

// Allow 檢查是否允許請求
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := l.store.Allow(ctx, key, l.requests, l.window)
	if err != nil {
		return false, 0, err
	}
	return res.Allowed, res.RetryAfter, nil
}

// RateLimit 限流中間件；限流後端出錯時放行請求
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), c.ClientIP()+":"+c.FullPath())
		if err != nil {
			common.LogError("Rate limiter failed, allowing request",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			c.Next()
			return
		}

		if !allowed {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(common.ErrTooManyRequests.Status, common.ErrTooManyRequests.Response(""))
			return
		}

		c.Next()
	}
}
