package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, ""), mr
}

func TestRedisStore_Key(t *testing.T) {
	assert.Equal(t, "gate:session:abc", NewRedisStore(nil, "").key("abc"))
	assert.Equal(t, "app:abc", NewRedisStore(nil, "app:").key("abc"))
}

func TestRedisStore_CreateAndGet(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestSession("s1", "u1", time.Hour)))
	assert.True(t, mr.Exists("gate:session:s1"))

	ttl := mr.TTL("gate:session:s1")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "u1", got.UserID)
}

func TestRedisStore_GetNotFound(t *testing.T) {
	store, _ := setupRedisStore(t)

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_EvictedByTTL(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestSession("s1", "u1", time.Minute)))
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_UpdateExpiredDeletes(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestSession("s1", "u1", time.Hour)))
	require.NoError(t, store.Update(ctx, newTestSession("s1", "u1", -time.Second)))
	assert.False(t, mr.Exists("gate:session:s1"))
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestSession("s1", "u1", time.Hour)))
	require.NoError(t, store.Delete(ctx, "s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := setupRedisStore(t)
	require.NoError(t, mr.Set("gate:session:bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewRedisStore(rdb, "")

	_, err := store.Get(context.Background(), "s1")
	assert.Error(t, err)
}
