package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/smartcvnaija/jobbroker/internal/platform/kv"
	"github.com/smartcvnaija/jobbroker/internal/platform/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := kv.New(&redis.Client{Client: rdb})
	return New(store, zap.NewNop()), mr
}

func TestLimiter_CheckLimit(t *testing.T) {
	t.Run("allows calls within the window", func(t *testing.T) {
		limiter, _ := newTestLimiter(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			res := limiter.CheckLimit(ctx, "+1555", ActionAICall)
			assert.True(t, res.Allowed)
		}
	})

	t.Run("blocks once the action's allowance is exceeded", func(t *testing.T) {
		limiter, _ := newTestLimiter(t)
		ctx := context.Background()

		var last Result
		for i := 0; i < 6; i++ {
			last = limiter.CheckLimit(ctx, "+1555", ActionAICall)
		}

		assert.False(t, last.Allowed)
		assert.Equal(t, int64(0), last.Remaining)
		assert.NotEmpty(t, last.Message)
	})

	t.Run("tracks identifiers independently", func(t *testing.T) {
		limiter, _ := newTestLimiter(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			limiter.CheckLimit(ctx, "+1555", ActionAICall)
		}
		res := limiter.CheckLimit(ctx, "+2666", ActionAICall)
		assert.True(t, res.Allowed)
	})

	t.Run("fails open for an unregistered action", func(t *testing.T) {
		limiter, _ := newTestLimiter(t)
		res := limiter.CheckLimit(context.Background(), "+1555", Action("unknown"))
		assert.True(t, res.Allowed)
	})
}

func TestLimiter_Remaining(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	remaining, err := limiter.Remaining(ctx, "+1555", ActionAICall)
	require.NoError(t, err)
	assert.Equal(t, int64(5), remaining)

	limiter.CheckLimit(ctx, "+1555", ActionAICall)
	remaining, err = limiter.Remaining(ctx, "+1555", ActionAICall)
	require.NoError(t, err)
	assert.Equal(t, int64(4), remaining)
}

func TestLimiter_ClearUserLimits(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.CheckLimit(ctx, "+1555", ActionAICall)
	limiter.CheckLimit(ctx, "+1555", ActionMessage)

	require.NoError(t, limiter.ClearUserLimits(ctx, "+1555"))

	remaining, err := limiter.Remaining(ctx, "+1555", ActionAICall)
	require.NoError(t, err)
	assert.Equal(t, int64(5), remaining)
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	ok, err := limiter.Allow(context.Background(), "+1555", ActionAICall)
	require.NoError(t, err)
	assert.True(t, ok)
}
