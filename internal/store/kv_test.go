package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return NewRedisKV(c), mr
}

func TestRedisKV_GetSetDelete(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "a", "1", 0))
	require.NoError(t, kv.Set(ctx, "b", "2", 0))
	v, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, kv.Delete(ctx, "a", "b"))
	_, err = kv.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Delete(ctx))
}

func TestRedisKV_TTL(t *testing.T) {
	kv, mr := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, SessionKey("tok"), "user-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := kv.Get(ctx, SessionKey("tok"))
	assert.ErrorIs(t, err, ErrMiss)
}

func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, "pagecraft:session:t", SessionKey("t"))
	assert.Equal(t, "pagecraft:page-draft:u", PageDraftKey("u"))
	assert.Equal(t, "pagecraft:published:dana", PublishedKey("dana"))
}
