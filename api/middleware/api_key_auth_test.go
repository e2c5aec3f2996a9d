/*
 * @module api/middleware/api_key_auth_test
 * @description API Key鉴权中间件单元测试
 * @architecture 测试层
 * @stateFlow 构造中间件 -> 发起请求 -> 断言放行或401
 * @rules 覆盖鉴权关闭、白名单、Key缺失/错误/正确和缓存命中
 * @dependencies github.com/stretchr/testify/assert, golang.org/x/crypto/bcrypt
 * @refs api_key_auth.go
 */

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"submission-quality-service/testutil"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hashKey(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAPIKeyAuth_DisabledWithoutHash(t *testing.T) {
	t.Setenv("API_KEY_HASH", "")
	handler := NewAPIKeyAuthMiddleware().Handler(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/quality/validate", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuth_MissingKeyRejected(t *testing.T) {
	t.Setenv("API_KEY_HASH", hashKey(t, "secret-key"))
	handler := NewAPIKeyAuthMiddleware().Handler(okHandler())

	helper := testutil.NewHTTPTestHelper()
	req, err := helper.CreateJSONRequest(http.MethodPost, "/quality/validate", map[string]string{"submission_id": "s1"})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	helper.AssertJSONResponse(t, w, http.StatusUnauthorized, map[string]interface{}{
		"status": 1,
		"msg":    "缺少API Key",
	})
}

func TestAPIKeyAuth_WrongKeyRejected(t *testing.T) {
	t.Setenv("API_KEY_HASH", hashKey(t, "secret-key"))
	handler := NewAPIKeyAuthMiddleware().Handler(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/quality/validate", nil)
	req.Header.Set(APIKeyHeader, "wrong-key")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyAuth_CorrectKeyAllowedAndCached(t *testing.T) {
	t.Setenv("API_KEY_HASH", hashKey(t, "secret-key"))
	m := NewAPIKeyAuthMiddleware()
	handler := m.Handler(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/quality/validate", nil)
		req.Header.Set(APIKeyHeader, "secret-key")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	m.cacheMutex.RLock()
	_, cached := m.validKeys["secret-key"]
	m.cacheMutex.RUnlock()
	assert.True(t, cached)
}

func TestAPIKeyAuth_WhitelistBypassesAuth(t *testing.T) {
	t.Setenv("API_KEY_HASH", hashKey(t, "secret-key"))
	handler := NewAPIKeyAuthMiddleware().Handler(okHandler())

	for _, path := range []string{"/health", "/ready", "/metrics", "/swagger/index.html"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
