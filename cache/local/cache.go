package local

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Config holds LocalCache settings.
type Config struct {
	GCInterval time.Duration
}

// entry holds a cached string value with an optional expiry.
type entry struct {
	data     string
	expireAt time.Time
	noExpiry bool
}

func newEntry(value string, ttl time.Duration) *entry {
	e := &entry{data: value}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	} else {
		e.noExpiry = true
	}
	return e
}

func (e *entry) expired() bool {
	return !e.noExpiry && time.Now().After(e.expireAt)
}

// lockedHash is one hash key.
type lockedHash struct {
	mu     sync.RWMutex
	fields map[string]string
}

// LocalCache is an in-process cache for single-node deployments and tests.
type LocalCache struct {
	mu         sync.Mutex // serializes check-then-write KV operations
	kv         sync.Map   // key → *entry
	hashes     sync.Map   // key → *lockedHash
	gcInterval time.Duration
	stopGC     chan struct{}
	closeOnce  sync.Once
}

// NewCache creates a LocalCache and starts the background GC goroutine.
func NewCache(cfg Config) (*LocalCache, error) {
	interval := cfg.GCInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	c := &LocalCache{
		gcInterval: interval,
		stopGC:     make(chan struct{}),
	}
	go c.runGC()
	return c, nil
}

// Close stops the background GC goroutine. Safe to call twice.
func (c *LocalCache) Close() {
	c.closeOnce.Do(func() { close(c.stopGC) })
}

func (c *LocalCache) runGC() {
	ticker := time.NewTicker(c.gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.kv.Range(func(k, v interface{}) bool {
				if e, ok := v.(*entry); ok && e.expired() {
					c.kv.Delete(k)
				}
				return true
			})
		case <-c.stopGC:
			return
		}
	}
}

// load returns the live entry for key, evicting it when expired.
func (c *LocalCache) load(key string) (*entry, bool) {
	v, ok := c.kv.Load(key)
	if !ok {
		return nil, false
	}
	e := v.(*entry)
	if e.expired() {
		c.kv.Delete(key)
		return nil, false
	}
	return e, true
}

// ---- KV ----

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	e, ok := c.load(key)
	if !ok {
		return "", ErrNotFound
	}
	return e.data, nil
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.kv.Store(key, newEntry(value, ttl))
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.kv.Delete(k)
		c.hashes.Delete(k)
	}
	return nil
}

func (c *LocalCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.load(key)
	return ok, nil
}

func (c *LocalCache) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.load(key); ok {
		return false, nil
	}
	c.kv.Store(key, newEntry(value, ttl))
	return true, nil
}

func (c *LocalCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.load(key)
	if !ok {
		return ErrNotFound
	}
	c.kv.Store(key, newEntry(e.data, ttl))
	return nil
}

func (c *LocalCache) CompareAndDelete(_ context.Context, key, value string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.load(key)
	if !ok || e.data != value {
		return false, nil
	}
	c.kv.Delete(key)
	return true, nil
}

// ---- Hash ----

func (c *LocalCache) hash(key string) *lockedHash {
	v, _ := c.hashes.LoadOrStore(key, &lockedHash{fields: make(map[string]string)})
	return v.(*lockedHash)
}

func (c *LocalCache) HSet(_ context.Context, key, field, value string) error {
	h := c.hash(key)
	h.mu.Lock()
	h.fields[field] = value
	h.mu.Unlock()
	return nil
}

func (c *LocalCache) HGet(_ context.Context, key, field string) (string, error) {
	h := c.hash(key)
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.fields[field]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (c *LocalCache) HGetAll(_ context.Context, key string) (map[string]string, error) {
	h := c.hash(key)
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make(map[string]string, len(h.fields))
	for k, v := range h.fields {
		result[k] = v
	}
	return result, nil
}

func (c *LocalCache) HDel(_ context.Context, key string, fields ...string) error {
	h := c.hash(key)
	h.mu.Lock()
	for _, f := range fields {
		delete(h.fields, f)
	}
	h.mu.Unlock()
	return nil
}

func (c *LocalCache) HLen(_ context.Context, key string) (int64, error) {
	h := c.hash(key)
	h.mu.RLock()
	defer h.mu.RUnlock()
	return int64(len(h.fields)), nil
}
