package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func withTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { Client = nil })
}

func TestGetSetJSON(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))

	var got payload
	found, err = GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	Delete(ctx, "k")
	found, err = GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheAside(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "fetched", Count: calls}
			return nil
		}
	}

	var first payload
	require.NoError(t, CacheAside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", first.Name)

	// Second read comes from the cache, not the fetcher.
	var second payload
	require.NoError(t, CacheAside(ctx, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestHelpersAreNoOpsWithoutRedis(t *testing.T) {
	Client = nil
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "k", payload{}, time.Minute))
	found, err := GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	// CacheAside still serves from the fetcher.
	var got payload
	require.NoError(t, CacheAside(ctx, "k", &got, time.Minute, func() error {
		got = payload{Name: "direct"}
		return nil
	}))
	assert.Equal(t, "direct", got.Name)
}
