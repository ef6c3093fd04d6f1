package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"genlog-api/pkg/errors"
	"genlog-api/pkg/logger"
)

// RateLimitHeader 当前窗口的请求上限
const RateLimitHeader = "X-RateLimit-Limit"

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	KeyPrefix         string
}

// RateLimit 按应用（缺省按客户端 IP）做每分钟限流
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 600
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit:http"
	}

	return func(c *gin.Context) {
		scope := AppID(c)
		if scope == "" {
			scope = "ip:" + c.ClientIP()
		}
		key := cfg.KeyPrefix + ":" + scope

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.RequestsPerMinute, time.Minute)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		c.Header(RateLimitHeader, strconv.Itoa(cfg.RequestsPerMinute))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     http.StatusTooManyRequests,
				"message":  "rate limit exceeded",
				"error":    gin.H{"error_code": errors.CodeTooManyRequests},
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
