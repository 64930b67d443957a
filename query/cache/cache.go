// Package cache memoizes compiled statements.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/sbelzile-nexapp/cotton/query/compiler"
)

// Stats represents cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Size      int
	MaxSize   int
	Evictions int64
	HitRate   float64
}

type entry struct {
	key       string
	stmt      *compiler.Statement
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Cache is an LRU cache of compiled statements with an optional TTL.
// Statements are copied on the way in and out, so callers never share a
// values slice.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	order   *list.List
	stats   Stats
}

// New creates a cache holding at most maxSize statements. A ttl of zero
// keeps entries until they are evicted.
func New(maxSize int, ttl time.Duration) *Cache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Cache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		stats:   Stats{MaxSize: maxSize},
	}
}

// Get retrieves a statement from the cache
func (c *Cache) Get(key string) (*compiler.Statement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	e := elem.Value.(*entry)
	if e.expired(time.Now()) {
		c.remove(elem)
		c.stats.Misses++
		return nil, false
	}

	c.order.MoveToFront(elem)
	c.stats.Hits++
	return clone(e.stmt), true
}

// Set stores a statement, evicting the least recently used one when full
func (c *Cache) Set(key string, stmt *compiler.Statement) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry)
		e.stmt = clone(stmt)
		e.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
			c.stats.Evictions++
		}
	}

	c.items[key] = c.order.PushFront(&entry{key: key, stmt: clone(stmt), expiresAt: expiresAt})
}

// Invalidate removes a specific key from the cache
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
}

// InvalidatePattern removes all keys matching a pattern such as
// "postgres:users:*" or "*:users:*".
func (c *Cache) InvalidatePattern(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, elem := range c.items {
		if matchesPattern(key, pattern) {
			c.remove(elem)
		}
	}
}

// Clear removes all entries and resets statistics
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.stats = Stats{MaxSize: c.maxSize}
}

// Stats returns cache statistics
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = c.order.Len()
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}
	return stats
}

func (c *Cache) remove(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*entry).key)
}

func clone(stmt *compiler.Statement) *compiler.Statement {
	return &compiler.Statement{
		Text:   stmt.Text,
		Values: append([]interface{}{}, stmt.Values...),
	}
}

// matchesPattern compares colon separated key parts, "*" matching any part.
func matchesPattern(key, pattern string) bool {
	if pattern == "*" {
		return true
	}

	parts := strings.Split(pattern, ":")
	keyParts := strings.Split(key, ":")
	if len(parts) != len(keyParts) {
		return false
	}

	for i, part := range parts {
		if part != "*" && part != keyParts[i] {
			return false
		}
	}
	return true
}
