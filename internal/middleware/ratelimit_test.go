package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCheckRateLimit(t *testing.T) {
	t.Run("test environment bypass", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		rdb := newTestRedis(t)

		for i := 0; i < 5; i++ {
			allowed, err := CheckRateLimit(context.Background(), rdb, "res", "1", 1, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
	})

	t.Run("nil redis fail-open", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		allowed, err := CheckRateLimit(context.Background(), nil, "res", "1", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("counter enforces limit", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		rdb := newTestRedis(t)

		for i := 0; i < 3; i++ {
			allowed, err := CheckRateLimit(context.Background(), rdb, "res", "ip:1.2.3.4", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed, "request %d should pass", i+1)
		}

		allowed, err := CheckRateLimit(context.Background(), rdb, "res", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		// A different caller has its own counter.
		allowed, err = CheckRateLimit(context.Background(), rdb, "res", "ip:5.6.7.8", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := newTestRedis(t)

	app := fiber.New()
	app.Get("/limited", RateLimit(rdb, 2, time.Minute, "limited"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
