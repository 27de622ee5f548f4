package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/installments/internal/infrastructure/auth"
	"github.com/erp/installments/internal/infrastructure/config"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/erp/installments/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) *auth.TokenVerifier {
	t.Helper()
	v, err := auth.NewTokenVerifier(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "ledger-test",
	})
	require.NoError(t, err)
	return v
}

// actorRouter echoes the actor seen by the handler in both contexts
func actorRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(cfg))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"gin_actor": c.GetString(logger.GinActorKey),
			"ctx_actor": logger.GetActor(c.Request.Context()),
			"user_id":   GetJWTUserID(c),
		})
	}
	router.GET("/api/v1/receipts/1/balance", handler)
	router.GET("/health", handler)
	router.GET("/swagger/index.html", handler)
	return router
}

func doGet(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware_ValidTokenSetsActor(t *testing.T) {
	v := newTestVerifier(t)
	token, err := v.Issue("u-7", "mona", time.Hour)
	require.NoError(t, err)

	w := doGet(actorRouter(DefaultJWTConfig(v, true)), "/api/v1/receipts/1/balance", BearerPrefix+token)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "mona", body["gin_actor"])
	assert.Equal(t, "mona", body["ctx_actor"])
	assert.Equal(t, "u-7", body["user_id"])
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	v := newTestVerifier(t)
	expired, err := v.Issue("u-1", "x", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"no bearer prefix", "Token abc", dto.ErrCodeUnauthorized},
		{"empty bearer", BearerPrefix, dto.ErrCodeUnauthorized},
		{"garbage", BearerPrefix + "not-a-jwt", dto.ErrCodeTokenInvalid},
		{"expired", BearerPrefix + expired, dto.ErrCodeTokenExpired},
	}

	router := actorRouter(DefaultJWTConfig(v, true))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(router, "/api/v1/receipts/1/balance", tt.header)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_Optional(t *testing.T) {
	v := newTestVerifier(t)
	router := actorRouter(DefaultJWTConfig(v, false))

	t.Run("anonymous request passes", func(t *testing.T) {
		w := doGet(router, "/api/v1/receipts/1/balance", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"gin_actor":""`)
	})

	t.Run("bad token is still rejected", func(t *testing.T) {
		w := doGet(router, "/api/v1/receipts/1/balance", BearerPrefix+"bad")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := actorRouter(DefaultJWTConfig(newTestVerifier(t), true))

	assert.Equal(t, http.StatusOK, doGet(router, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doGet(router, "/swagger/index.html", "").Code)
}

func TestJWTAuthMiddleware_NoVerifier(t *testing.T) {
	router := actorRouter(DefaultJWTConfig(nil, true))

	w := doGet(router, "/api/v1/receipts/1/balance", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetJWTClaims_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
}
