/*
 * @module api/middleware/api_key_auth
 * @description API Key鉴权中间件，校验请求头中的API Key
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow Key提取 -> bcrypt比对 -> 下一个处理器
 * @rules 未配置API_KEY_HASH时鉴权关闭；健康检查、指标和文档路径始终放行
 * @dependencies golang.org/x/crypto/bcrypt, github.com/go-chi/render
 * @refs api/routes.go
 */

package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyHeader API Key请求头
const APIKeyHeader = "X-API-Key"

// APIKeyAuthMiddleware API Key认证中间件
type APIKeyAuthMiddleware struct {
	keyHash []byte
	// bcrypt比对通过的Key缓存，避免每个请求重复哈希
	validKeys  map[string]struct{}
	cacheMutex sync.RWMutex
	// 白名单路径（不需要鉴权）
	whitelistPaths []string
}

// NewAPIKeyAuthMiddleware 创建API Key认证中间件实例
// API_KEY_HASH为目标Key的bcrypt哈希，未配置时鉴权关闭
func NewAPIKeyAuthMiddleware() *APIKeyAuthMiddleware {
	return &APIKeyAuthMiddleware{
		keyHash:   []byte(os.Getenv("API_KEY_HASH")),
		validKeys: make(map[string]struct{}),
		whitelistPaths: []string{
			"/health",
			"/ready",
			"/metrics",
			"/swagger",
		},
	}
}

// Handler 中间件处理函数
func (m *APIKeyAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(m.keyHash) == 0 || m.isWhitelisted(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(APIKeyHeader)
		if key == "" {
			m.unauthorized(w, r, "缺少API Key")
			return
		}

		if !m.verify(key) {
			m.unauthorized(w, r, "API Key无效")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isWhitelisted 检查路径是否在白名单中
func (m *APIKeyAuthMiddleware) isWhitelisted(path string) bool {
	for _, prefix := range m.whitelistPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// verify bcrypt比对API Key，通过后写入缓存
func (m *APIKeyAuthMiddleware) verify(key string) bool {
	m.cacheMutex.RLock()
	_, cached := m.validKeys[key]
	m.cacheMutex.RUnlock()
	if cached {
		return true
	}

	if err := bcrypt.CompareHashAndPassword(m.keyHash, []byte(key)); err != nil {
		return false
	}

	m.cacheMutex.Lock()
	m.validKeys[key] = struct{}{}
	m.cacheMutex.Unlock()
	return true
}

// unauthorized 返回401响应
func (m *APIKeyAuthMiddleware) unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"status": 1,
		"msg":    msg,
	})
}
