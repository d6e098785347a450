package health_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortkey/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	err error
}

func (m *mockChecker) Ping(_ context.Context) error {
	return m.err
}

func TestHandler_Check(t *testing.T) {
	t.Run("returns ok with no dependencies", func(t *testing.T) {
		handler := health.NewHandler(nil)

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, health.StatusOK, resp.Body.Status)
		assert.Empty(t, resp.Body.Dependencies)
	})

	t.Run("returns ok when every dependency is healthy", func(t *testing.T) {
		handler := health.NewHandler(map[string]health.Checker{
			"redis":    &mockChecker{},
			"postgres": &mockChecker{},
		})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, health.StatusOK, resp.Body.Status)
		assert.Equal(t, map[string]string{
			"redis":    health.Healthy,
			"postgres": health.Healthy,
		}, resp.Body.Dependencies)
	})

	t.Run("returns degraded when one dependency is unhealthy", func(t *testing.T) {
		handler := health.NewHandler(map[string]health.Checker{
			"redis":    &mockChecker{},
			"postgres": &mockChecker{err: errors.New("connection refused")},
		})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, health.StatusDegraded, resp.Body.Status)
		assert.Equal(t, health.Healthy, resp.Body.Dependencies["redis"])
		assert.Equal(t, health.Unhealthy, resp.Body.Dependencies["postgres"])
	})
}

func TestRegisterRoutes(t *testing.T) {
	_, api := humatest.New(t)
	health.RegisterRoutes(api, health.NewHandler(map[string]health.Checker{
		"redis": &mockChecker{err: errors.New("down")},
	}))

	resp := api.Get("/health")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"degraded"`)
}

func TestRedisChecker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", addr, err)
	}

	t.Run("Ping returns nil when redis is available", func(t *testing.T) {
		checker := health.NewRedisChecker(client)

		err := checker.Ping(context.Background())

		assert.NoError(t, err)
	})
}
