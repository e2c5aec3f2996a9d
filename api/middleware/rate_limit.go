/*
 * @module api/middleware/rate_limit
 * @description 限流中间件，按调用方标识限制质量校验API请求频率
 * @architecture 中间件模式 - HTTP请求拦截
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 提取调用方标识 -> 限流检查 -> 放行或429
 * @rules 未配置Redis限流器时中间件透传；限流检查自身出错时放行不阻断业务
 * @dependencies service/rate_limiter, github.com/go-chi/render
 * @refs api/routes.go, service/rate_limiter/redis_rate_limiter.go
 */

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"submission-quality-service/service/rate_limiter"

	"github.com/go-chi/render"
)

// RateLimitMiddleware 请求限流中间件
type RateLimitMiddleware struct {
	limiter *rate_limiter.RedisRateLimiter
}

// NewRateLimitMiddleware 创建限流中间件实例
// limiter为nil时中间件透传
func NewRateLimitMiddleware(limiter *rate_limiter.RedisRateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Handler 中间件处理函数
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		result, err := m.limiter.CheckRateLimit(r.Context(), callerID(r))
		if err != nil {
			// 限流设施故障不阻断业务请求
			slog.Warn("限流检查失败，请求放行", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			render.Status(r, http.StatusTooManyRequests)
			render.JSON(w, r, map[string]interface{}{
				"status": 1,
				"msg":    "请求频率超限，请稍后重试",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// callerID 提取调用方标识：优先API Key，退化为客户端IP
func callerID(r *http.Request) string {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return "key:" + key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
