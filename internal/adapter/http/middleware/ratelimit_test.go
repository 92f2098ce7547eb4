package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ricemill-erp/config"
	"ricemill-erp/internal/adapter/http/middleware"
	"ricemill-erp/internal/adapter/storage/memory"
	redisStore "ricemill-erp/internal/adapter/storage/redis"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/internal/core/ports/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupRateLimitRouter(limiter ports.RateLimiter) *gin.Engine {
	return setupRateLimitRouterWithTokens(limiter, nil)
}

func setupRateLimitRouterWithTokens(limiter ports.RateLimiter, tokens ports.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	rules := middleware.RateLimitRules(config.RateLimitConfig{ReadRequests: 3, WriteRequests: 1, Window: time.Minute})
	r.Use(middleware.Actor(tokens, zerolog.Nop()), middleware.RateLimiter(limiter, rules, zerolog.Nop()))
	r.GET("/test", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/test", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"status": "ok"}) })
	return r
}

func newRedisLimiter(t *testing.T) ports.RateLimiter {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redisStore.NewRateLimitStore(client)
}

func serve(router *gin.Engine, method, user string) *httptest.ResponseRecorder {
	return serveFrom(router, method, "192.0.2.10:4000", map[string]string{middleware.HeaderUserName: user})
}

func serveFrom(router *gin.Engine, method, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), method, "/test", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	router.ServeHTTP(w, req)
	return w
}

// tokensByID accepts any bearer token and uses it verbatim as the user id.
func tokensByID(t *testing.T) ports.TokenService {
	tokens := mocks.NewMockTokenService(gomock.NewController(t))
	tokens.EXPECT().Validate(gomock.Any()).DoAndReturn(func(tok string) (*ports.TokenClaims, error) {
		return &ports.TokenClaims{UserID: tok, Name: "user-" + tok}, nil
	}).AnyTimes()
	return tokens
}

func TestRateLimiter_Backends(t *testing.T) {
	backends := map[string]func(t *testing.T) ports.RateLimiter{
		"redis":  newRedisLimiter,
		"memory": func(*testing.T) ports.RateLimiter { return memory.NewRateLimiter() },
	}

	for name, newLimiter := range backends {
		t.Run(name+"/reads within limit", func(t *testing.T) {
			router := setupRateLimitRouter(newLimiter(t))
			for i := 0; i < 3; i++ {
				w := serve(router, http.MethodGet, "")
				assert.Equal(t, http.StatusOK, w.Code, "request %d should succeed", i+1)
				assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
				assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
				assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
			}
		})

		t.Run(name+"/writes blocked over limit", func(t *testing.T) {
			router := setupRateLimitRouter(newLimiter(t))
			assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "").Code)

			w := serve(router, http.MethodPost, "")
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
			assert.NotEmpty(t, w.Header().Get("Retry-After"))

			assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "").Code, "reads use their own budget")
		})

		t.Run(name+"/header names share the client IP budget", func(t *testing.T) {
			router := setupRateLimitRouter(newLimiter(t))
			assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "ravi").Code)
			assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodPost, "ravi").Code)
			assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodPost, "lakshmi").Code,
				"rotating X-User-Name must not reset the budget")

			other := serveFrom(router, http.MethodPost, "198.51.100.7:5000", nil)
			assert.Equal(t, http.StatusCreated, other.Code, "another client IP has its own budget")
		})

		t.Run(name+"/keyed by verified user", func(t *testing.T) {
			router := setupRateLimitRouterWithTokens(newLimiter(t), tokensByID(t))
			bearer := func(id string) map[string]string { return map[string]string{"Authorization": "Bearer " + id} }

			assert.Equal(t, http.StatusCreated, serveFrom(router, http.MethodPost, "192.0.2.10:4000", bearer("u-1")).Code)
			assert.Equal(t, http.StatusTooManyRequests, serveFrom(router, http.MethodPost, "192.0.2.10:4000", bearer("u-1")).Code)
			assert.Equal(t, http.StatusCreated, serveFrom(router, http.MethodPost, "192.0.2.10:4000", bearer("u-2")).Code)
		})
	}
}

func TestRateLimiter_DegradedMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := mocks.NewMockRateLimiter(ctrl)
	limiter.EXPECT().Allow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis: connection refused"))

	router := setupRateLimitRouter(limiter)
	w := serve(router, http.MethodGet, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}
