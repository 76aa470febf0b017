package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/smartcvnaija/jobbroker/internal/platform/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return New(&redis.Client{Client: rdb}), mr
}

func TestStore_GetSet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "key", "value", 0))
	val, found, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", val)
}

func TestStore_Incr(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	n, err := store.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_ExpireAndTTL(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", "value", 0))
	require.NoError(t, store.Expire(ctx, "key", time.Minute))

	ttl, err := store.TTL(ctx, "key")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestStore_ExistsAndDel(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", "value", 0))
	exists, err := store.Exists(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Del(ctx, "key"))
	exists, err = store.Exists(ctx, "key")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_KeysByPattern(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "rate:message:+1555", "1", 0))
	require.NoError(t, store.Set(ctx, "rate:job_search:+1555", "1", 0))
	require.NoError(t, store.Set(ctx, "session:+1555", "1", 0))

	keys, err := store.KeysByPattern(ctx, "rate:*:+1555")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestStore_Ping(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
