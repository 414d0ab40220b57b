// Package cache provides 2-tier caching: L1 in-memory + optional L2 Redis.
// L1 is fast but lost on restart. L2 survives restarts and is shared between replicas.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AlphaReposi/YTVV/metrics"
	"github.com/redis/go-redis/v9"
)

// Cache is safe for concurrent use. A nil *Cache is a no-op that always misses.
type Cache struct {
	l1         sync.Map      // key → *entry
	rdb        *redis.Client // nil if Redis unavailable
	ttl        time.Duration
	maxEntries int
	stop       chan struct{}
	stopOnce   sync.Once
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Connect dials Redis and verifies it with a ping. An empty URL returns nil, nil.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return rdb, nil
}

// New creates a cache. rdb may be nil to disable L2.
func New(rdb *redis.Client, ttl time.Duration, maxEntries int) *Cache {
	c := &Cache{rdb: rdb, ttl: ttl, maxEntries: maxEntries, stop: make(chan struct{})}
	slog.Info("cache: initialized",
		slog.Duration("ttl", ttl),
		slog.Bool("redis", rdb != nil),
		slog.Int("max_entries", maxEntries))
	go c.cleanupLoop(5 * time.Minute)
	return c
}

// Close stops the cleanup goroutine and closes the Redis client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	c.stopOnce.Do(func() { close(c.stop) })
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Key builds a deterministic cache key from parts.
func Key(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("ytvv:%x", hash[:12])
}

// Get tries L1, then L2. On L2 hit, populates L1.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		metrics.IncrCacheMiss()
		return nil, false
	}

	if val, ok := c.l1.Load(key); ok {
		e := val.(*entry)
		if time.Now().Before(e.expiresAt) {
			metrics.IncrCacheHit()
			return e.data, true
		}
		c.l1.Delete(key)
	}

	if c.rdb != nil {
		pipe := c.rdb.Pipeline()
		get := pipe.Get(ctx, key)
		pttl := pipe.PTTL(ctx, key)
		_, _ = pipe.Exec(ctx)

		data, err := get.Bytes()
		if err == nil {
			slog.Debug("cache: L2 hit", slog.String("key", key))
			metrics.IncrCacheHit()
			c.l1.Store(key, &entry{data: data, expiresAt: time.Now().Add(l1TTL(pttl.Val(), c.ttl))})
			return data, true
		}
		if err != redis.Nil {
			slog.Debug("cache: L2 get failed", slog.Any("error", err))
		}
	}

	metrics.IncrCacheMiss()
	return nil, false
}

// l1TTL bounds an L2 hit's L1 lifetime by what Redis has left on the key.
// Negative remaining means no expiry or an unknown one.
func l1TTL(remaining, ttl time.Duration) time.Duration {
	if remaining > 0 && remaining < ttl {
		return remaining
	}
	return ttl
}

// Set stores data in both L1 and L2.
func (c *Cache) Set(ctx context.Context, key string, data []byte) {
	if c == nil {
		return
	}
	c.evictIfNeeded()
	c.l1.Store(key, &entry{data: data, expiresAt: time.Now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

// LoadJSON decodes a cached value of type T. Decode errors count as a miss.
func LoadJSON[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var out T
	data, ok := c.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// StoreJSON marshals v and stores it.
func StoreJSON[T any](ctx context.Context, c *Cache, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, data)
}

// Len counts L1 entries, expired ones included.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	c.l1.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// evictIfNeeded removes entries when L1 reaches maxEntries.
// Removes expired entries first, then the ones closest to expiry.
func (c *Cache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}
	count := c.Len()
	if count < c.maxEntries {
		return
	}

	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	for count >= c.maxEntries {
		var oldestKey any
		var oldestAt time.Time
		c.l1.Range(func(key, val any) bool {
			if e, ok := val.(*entry); ok && (oldestKey == nil || e.expiresAt.Before(oldestAt)) {
				oldestKey = key
				oldestAt = e.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			break
		}
		c.l1.Delete(oldestKey)
		count--
	}
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.l1.Range(func(key, val any) bool {
				if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
					c.l1.Delete(key)
				}
				return true
			})
		}
	}
}
