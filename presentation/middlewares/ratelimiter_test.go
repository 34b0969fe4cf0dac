package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func rateLimitedRouter(client *redis.Client) *gin.Engine {
	router := gin.New()
	router.Use(RateLimiterMiddleware(client, logger.NewNop(), StrictRateLimiterConfig()))
	router.POST("/applications", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return router
}

func TestRateLimiterPassesThroughWithoutRedis(t *testing.T) {
	t.Parallel()

	router := rateLimitedRouter(nil)
	for range StrictRateLimiterConfig().RequestsPerWindow * 2 {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/applications", nil))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
	}
}

func TestRateLimiterFailsOpenWhenRedisUnreachable(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	rec := httptest.NewRecorder()
	rateLimitedRouter(client).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/applications", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "" {
		t.Fatal("limit headers set without a limiter result")
	}
}
