package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type entry struct {
	value     string
	list      []string
	isList    bool
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Cache is a process-local stand-in for the Redis commands the services use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry), now: time.Now}
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

func (c *Cache) live(key string) (entry, bool) {
	e, ok := c.entries[key]
	if ok && e.expired(c.now()) {
		delete(c.entries, key)
		return entry{}, false
	}
	return e, ok
}

func (c *Cache) deadline(expiration time.Duration) time.Time {
	if expiration <= 0 {
		return time.Time{}
	}
	return c.now().Add(expiration)
}

func (c *Cache) Get(_ context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.live(key)
	if !ok || e.isList {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(e.value, nil)
}

func (c *Cache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: toString(value), expiresAt: c.deadline(expiration)}
	return redis.NewStatusResult("OK", nil)
}

func (c *Cache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	return redis.NewIntResult(c.del(keys), nil)
}

func (c *Cache) del(keys []string) int64 {
	var n int64
	for _, key := range keys {
		if _, ok := c.live(key); ok {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

func (c *Cache) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for _, key := range keys {
		if _, ok := c.live(key); ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (c *Cache) RPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, _ := c.live(key)
	e.isList = true
	for _, v := range values {
		e.list = append(e.list, toString(v))
	}
	c.entries[key] = e
	return redis.NewIntResult(int64(len(e.list)), nil)
}

// LRange supports the index forms the services use, including -1 for the last element.
func (c *Cache) LRange(_ context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	return redis.NewStringSliceResult(c.lrange(key, start, stop), nil)
}

func (c *Cache) lrange(key string, start, stop int64) []string {
	e, ok := c.live(key)
	if !ok {
		return []string{}
	}
	n := int64(len(e.list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return []string{}
	}
	out := make([]string, stop-start+1)
	copy(out, e.list[start:stop+1])
	return out
}

func (c *Cache) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.live(key)
	if !ok {
		return redis.NewBoolResult(false, nil)
	}
	e.expiresAt = c.deadline(expiration)
	c.entries[key] = e
	return redis.NewBoolResult(true, nil)
}
