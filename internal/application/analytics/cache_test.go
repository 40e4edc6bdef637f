package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

type payload struct {
	N int `json:"n"`
}

func TestCache_FetchJSONUsaValorGuardado(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{N: calls}, nil
	}

	key, err := cache.BuildKey(ctx, "reports", "summary")
	require.NoError(t, err)
	assert.Equal(t, "reports:summary:1", key)

	var first, second payload
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestCache_InvalidateCambiaLaClave(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "reports", "low-stock")
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx))
	after, err := cache.BuildKey(ctx, "reports", "low-stock")
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
	assert.Equal(t, "reports:low-stock:2", after)
}

func TestCache_NilEjecutaSiempreElLoader(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "reports", "x")
	require.NoError(t, err)
	assert.Equal(t, "reports:x", key)
	require.NoError(t, cache.Invalidate(ctx))

	calls := 0
	for i := 0; i < 2; i++ {
		var out payload
		require.NoError(t, cache.FetchJSON(ctx, key, &out, func(context.Context) (any, error) {
			calls++
			return payload{N: 7}, nil
		}))
		assert.Equal(t, 7, out.N)
	}
	assert.Equal(t, 2, calls)
}

func TestCache_ErrorDelLoaderNoSeGuarda(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	boom := errors.New("boom")

	var out payload
	err := cache.FetchJSON(ctx, "k", &out, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestCache_RedisCaidoDevuelveError(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	_, err := cache.BuildKey(context.Background(), "reports", "summary")
	assert.Error(t, err)
}
