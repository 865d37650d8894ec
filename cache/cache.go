// Package cache is an in-memory TTL store for dynamic values. Entries are
// deep-cloned on the way in and on the way out, so a cached value can never
// be mutated through a reference the caller kept or received.
package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dynlib/dynaval/dyn"
)

type Config struct {
	// DefaultTTL bounds the lifetime of entries stored with Put. Zero
	// means entries do not expire.
	DefaultTTL time.Duration

	// Clock supplies the current time. Defaults to time.Now.
	Clock func() time.Time

	// Caps feeds the clone engine used for isolation.
	Caps dyn.Capabilities
}

func (c Config) withDefaults() Config {
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

type entry struct {
	val     dyn.Value
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

type Cache struct {
	cfg     Config
	mu      sync.RWMutex
	entries map[string]entry

	janitorMu sync.Mutex
	done      chan struct{}
}

func New(cfg Config) *Cache {
	return &Cache{cfg: cfg.withDefaults(), entries: map[string]entry{}}
}

// Put stores a deep clone of v under key with the default lifetime.
func (c *Cache) Put(key string, v dyn.Value) error {
	return c.PutTTL(key, v, c.cfg.DefaultTTL)
}

// PutTTL stores a deep clone of v under key. A zero ttl stores the entry
// without an expiry; a negative ttl is an error.
func (c *Cache) PutTTL(key string, v dyn.Value, ttl time.Duration) error {
	if ttl < 0 {
		return fmt.Errorf("ttl must not be negative, got %v", ttl)
	}
	stored, err := dyn.CloneWith(v, c.cfg.Caps)
	if err != nil {
		return fmt.Errorf("isolate value for %q: %w", key, err)
	}
	e := entry{val: stored}
	if ttl > 0 {
		e.expires = c.cfg.Clock().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Get returns a deep clone of the value under key. Expired entries are
// misses; Sweep removes them.
func (c *Cache) Get(key string) (dyn.Value, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || e.expired(c.cfg.Clock()) {
		return dyn.NewUndefined(), false, nil
	}
	out, err := dyn.CloneWith(e.val, c.cfg.Caps)
	if err != nil {
		return dyn.NewUndefined(), false, fmt.Errorf("isolate value for %q: %w", key, err)
	}
	return out, true, nil
}

// Delete removes key and reports whether a live entry was present.
func (c *Cache) Delete(key string) bool {
	now := c.cfg.Clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	delete(c.entries, key)
	return !e.expired(now)
}

// Len counts the live entries.
func (c *Cache) Len() int {
	now := c.cfg.Clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

// Keys returns the live keys, sorted.
func (c *Cache) Keys() []string {
	now := c.cfg.Clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for key, e := range c.entries {
		if !e.expired(now) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// Sweep drops every expired entry and reports how many went.
func (c *Cache) Sweep() int {
	now := c.cfg.Clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// StartJanitor sweeps expired entries every interval until Stop. Starting
// a second janitor is an error.
func (c *Cache) StartJanitor(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("janitor interval must be positive, got %v", interval)
	}
	c.janitorMu.Lock()
	defer c.janitorMu.Unlock()
	if c.done != nil {
		return fmt.Errorf("janitor already running")
	}
	done := make(chan struct{})
	c.done = done
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Sweep()
			case <-done:
				return
			}
		}
	}()
	return nil
}

// Stop halts the janitor. Safe to call when none is running.
func (c *Cache) Stop() {
	c.janitorMu.Lock()
	defer c.janitorMu.Unlock()
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}
