// Package querycache keeps the results of read queries by key.
//
// Reads for the same key that miss the cache at the same time share a single fetch.
// Writers invalidate keys explicitly once their mutation succeeded, which makes the
// next read fetch again.
package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Options struct {
	// StaleTime is how long a result stays fresh. With zero, results are stale as soon as
	// they are stored and only reads joining a fetch in flight share its result.
	StaleTime time.Duration
}

// Cache is safe for concurrent use.
type Cache struct {
	staleTime time.Duration
	now       func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	gens    map[string]uint64
}

type entry struct {
	value   any
	updated time.Time
	stale   bool
}

func New(options Options) *Cache {
	return &Cache{
		staleTime: options.StaleTime,
		now:       time.Now,
		entries:   make(map[string]*entry),
		gens:      make(map[string]uint64),
	}
}

// Query returns the fresh value cached under key or fetches it.
// A fetch is shared with every concurrent Query for the same key; each caller
// stops waiting when its own ctx is done. The shared fetch keeps the values of the
// ctx that started it but not its cancellation, so one caller leaving does not fail the others.
func Query[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := c.fresh(key); ok {
		t, ok := v.(T)
		if !ok {
			return zero, fmt.Errorf("querycache: key %q holds %T", key, v)
		}
		return t, nil
	}

	gen := c.generation(key)
	ch := c.group.DoChan(key, func() (any, error) {
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(key, gen, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		t, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("querycache: key %q holds %T", key, res.Val)
		}
		return t, nil
	}
}

// Invalidate marks the value under key as stale.
// Fetches already in flight for key will not store their result.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
	if e, ok := c.entries[key]; ok {
		e.stale = true
	}
	c.group.Forget(key)
}

// Peek returns the last value stored under key, fresh or not, without fetching.
func (c *Cache) Peek(key string) (value any, fresh, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return e.value, c.isFresh(e), true
}

func (c *Cache) fresh(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !c.isFresh(e) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) isFresh(e *entry) bool {
	if e.stale || c.staleTime <= 0 {
		return false
	}
	return c.now().Sub(e.updated) < c.staleTime
}

func (c *Cache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

func (c *Cache) store(key string, gen uint64, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return
	}
	c.entries[key] = &entry{value: v, updated: c.now()}
}
