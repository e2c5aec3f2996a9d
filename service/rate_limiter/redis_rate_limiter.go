/*
 * @module service/rate_limiter/redis_rate_limiter
 * @description 基于Redis的分布式限流服务，保护质量校验API不被单个调用方打满
 * @architecture 工具层 - 提供分布式限流能力
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 提取调用方标识 -> Redis计数 -> 判断是否超限
 * @rules 使用Redis INCR和EXPIRE实现固定窗口限流，窗口与配额由环境变量控制
 * @dependencies github.com/go-redis/redis/v8
 * @refs api/middleware/rate_limit.go, api/routes.go
 */

package rate_limiter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
)

// 限流计数键前缀
const counterKeyPrefix = "submission_quality:ratelimit:"

const (
	defaultMaxRequests = 120
	defaultWindowSecs  = 60
)

// RateLimitResult 限流检查结果
type RateLimitResult struct {
	Allowed   bool  `json:"allowed"`   // 是否允许请求
	Limit     int   `json:"limit"`     // 窗口内最大请求数
	Remaining int   `json:"remaining"` // 剩余配额
	ResetAt   int64 `json:"reset_at"`  // 窗口重置时间（Unix时间戳）
}

// RedisRateLimiter Redis限流器
type RedisRateLimiter struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
}

// NewRedisRateLimiter 创建Redis限流器
// 配额由RATE_LIMIT_MAX和RATE_LIMIT_WINDOW_SECONDS控制
func NewRedisRateLimiter() (*RedisRateLimiter, error) {
	host := getEnvWithDefault("REDIS_HOST", "localhost")
	port := getEnvWithDefault("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")
	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		fmt.Sscanf(dbStr, "%d", &db)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis连接失败: %w", err)
	}

	maxRequests := defaultMaxRequests
	if raw := os.Getenv("RATE_LIMIT_MAX"); raw != "" {
		if parsed, err := cast.ToIntE(raw); err == nil && parsed > 0 {
			maxRequests = parsed
		}
	}
	windowSecs := defaultWindowSecs
	if raw := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); raw != "" {
		if parsed, err := cast.ToIntE(raw); err == nil && parsed > 0 {
			windowSecs = parsed
		}
	}

	slog.Info("Redis限流器初始化成功",
		"redis_host", host,
		"redis_port", port,
		"max_requests", maxRequests,
		"window_seconds", windowSecs)

	return &RedisRateLimiter{
		client:      client,
		maxRequests: maxRequests,
		window:      time.Duration(windowSecs) * time.Second,
	}, nil
}

// CheckRateLimit 对调用方标识执行固定窗口限流检查
func (r *RedisRateLimiter) CheckRateLimit(ctx context.Context, callerID string) (*RateLimitResult, error) {
	key := counterKeyPrefix + callerID

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("限流计数失败: %w", err)
	}

	// 窗口首个请求设置过期时间
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return nil, fmt.Errorf("限流窗口设置失败: %w", err)
		}
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = r.window
	}

	remaining := r.maxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	result := &RateLimitResult{
		Allowed:   count <= int64(r.maxRequests),
		Limit:     r.maxRequests,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl).Unix(),
	}

	if !result.Allowed {
		slog.Warn("调用方超过限流配额",
			"caller", callerID,
			"count", count,
			"limit", r.maxRequests)
	}

	return result, nil
}

// Reset 清除调用方的限流计数
func (r *RedisRateLimiter) Reset(ctx context.Context, callerID string) error {
	return r.client.Del(ctx, counterKeyPrefix+callerID).Err()
}

// Close 关闭Redis客户端
func (r *RedisRateLimiter) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
