// Package cache provides a small in-process LRU with per-entry TTL.
// The HTTP layer keys entries by "uid:month" so a write to one month
// invalidates exactly that partition.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Key builds the cache key for a user's month partition.
func Key(uid, month string) string {
	return uid + ":" + month
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

// LRU is a fixed-capacity cache with TTL expiry. Safe for concurrent use.
type LRU[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	order   *list.List
}

func NewLRU[T any](maxSize int, ttl time.Duration) *LRU[T] {
	return &LRU[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached value when present and unexpired.
func (c *LRU[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		c.remove(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)
	return e.value, true
}

// Set stores a value, evicting the least recently used entry at capacity.
func (c *LRU[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[T]{key: key, value: value, expiresAt: time.Now().Add(c.ttl)}

	if elem, ok := c.items[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(e)
	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

// Delete drops a single key.
func (c *LRU[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
}

// DeletePrefix drops every key starting with prefix. Used when all of a
// user's data is purged and any month may be stale.
func (c *LRU[T]) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var victims []*list.Element
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		if strings.HasPrefix(elem.Value.(*entry[T]).key, prefix) {
			victims = append(victims, elem)
		}
	}
	for _, elem := range victims {
		c.remove(elem)
	}
	return len(victims)
}

// CleanExpired drops expired entries and reports how many were removed.
func (c *LRU[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var victims []*list.Element
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			victims = append(victims, elem)
		}
	}
	for _, elem := range victims {
		c.remove(elem)
	}
	return len(victims)
}

// Size reports the number of live entries.
func (c *LRU[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *LRU[T]) remove(elem *list.Element) {
	delete(c.items, elem.Value.(*entry[T]).key)
	c.order.Remove(elem)
}

// Cleaner is implemented by caches that support expiry sweeps.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically sweeps expired entries from registered caches.
type Janitor struct {
	caches []Cleaner
	stop   chan struct{}
	done   chan struct{}
}

func NewJanitor() *Janitor {
	return &Janitor{stop: make(chan struct{}), done: make(chan struct{})}
}

func (j *Janitor) Register(c Cleaner) {
	j.caches = append(j.caches, c)
}

func (j *Janitor) Start(interval time.Duration) {
	go func() {
		defer close(j.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, c := range j.caches {
					c.CleanExpired()
				}
			case <-j.stop:
				return
			}
		}
	}()
}

func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}
