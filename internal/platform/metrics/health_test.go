package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/smartcvnaija/jobbroker/internal/platform/kv"
	jbredis "github.com/smartcvnaija/jobbroker/internal/platform/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPostgresPinger struct {
	err error
}

func (s stubPostgresPinger) Health(ctx context.Context) error { return s.err }

func newTestKVStore(t *testing.T) *kv.Store {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return kv.New(&jbredis.Client{Client: rdb})
}

func TestHealthChecker_Check(t *testing.T) {
	t.Run("reports healthy when every probe is up", func(t *testing.T) {
		h := NewHealthChecker(stubPostgresPinger{}, newTestKVStore(t), nil)

		services, healthy := h.Check(context.Background())

		assert.True(t, healthy)
		assert.Equal(t, "up", services["database"])
		assert.Equal(t, "up", services["redis"])
		assert.Equal(t, "up", services["memory"])
	})

	t.Run("reports unhealthy when the database probe fails", func(t *testing.T) {
		h := NewHealthChecker(stubPostgresPinger{err: errors.New("connection refused")}, newTestKVStore(t), nil)

		services, healthy := h.Check(context.Background())

		assert.False(t, healthy)
		assert.Equal(t, "down", services["database"])
		assert.Equal(t, "up", services["redis"])
	})

	t.Run("reports unhealthy when redis is unreachable", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		store := kv.New(&jbredis.Client{Client: rdb})
		mr.Close()

		h := NewHealthChecker(stubPostgresPinger{}, store, nil)

		services, healthy := h.Check(context.Background())

		assert.False(t, healthy)
		assert.Equal(t, "down", services["redis"])
	})
}
