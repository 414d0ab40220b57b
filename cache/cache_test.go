package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type video struct {
	Title string `json:"title"`
	Views int64  `json:"views"`
}

func TestKeyDeterministic(t *testing.T) {
	assert.Equal(t, Key("meta", "dQw4w9WgXcQ"), Key("meta", "dQw4w9WgXcQ"))
	assert.NotEqual(t, Key("meta", "a"), Key("meta", "b"))
	assert.Len(t, Key("x"), len("ytvv:")+24)
}

func TestSetGetJSON(t *testing.T) {
	c := New(nil, time.Minute, 10)
	defer c.Close()
	ctx := context.Background()

	StoreJSON(ctx, c, "k", video{Title: "Go", Views: 42})
	got, ok := LoadJSON[video](ctx, c, "k")
	require.True(t, ok)
	assert.Equal(t, video{Title: "Go", Views: 42}, got)

	_, ok = LoadJSON[video](ctx, c, "missing")
	assert.False(t, ok)
}

func TestExpiredEntryMisses(t *testing.T) {
	c := New(nil, time.Millisecond, 10)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestEvictionKeepsUnderLimit(t *testing.T) {
	c := New(nil, time.Minute, 3)
	defer c.Close()
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		c.Set(ctx, k, []byte(k))
	}
	assert.LessOrEqual(t, c.Len(), 3)
	_, ok := c.Get(ctx, "e")
	assert.True(t, ok, "newest entry survives eviction")
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestConnectEmptyURL(t *testing.T) {
	rdb, err := Connect(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestL1TTL(t *testing.T) {
	ttl := 15 * time.Minute
	assert.Equal(t, 2*time.Minute, l1TTL(2*time.Minute, ttl), "remaining L2 lifetime wins")
	assert.Equal(t, ttl, l1TTL(time.Hour, ttl), "never longer than the configured ttl")
	assert.Equal(t, ttl, l1TTL(-1, ttl), "key without expiry")
	assert.Equal(t, ttl, l1TTL(-2*time.Nanosecond, ttl), "missing key")
	assert.Equal(t, ttl, l1TTL(0, ttl))
}
