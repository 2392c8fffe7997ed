package attachments

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache holds short-lived outbound document bytes (generated documents
// waiting to be picked up or mailed) keyed by id. It is a bounded,
// time-evicting store owned by the delivery layer: entries expire after a
// TTL, eviction runs lazily on access and through a scheduled Sweep.
//
// Clock is injected so expiry is testable.

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns the current wall time
func (SystemClock) Now() time.Time { return time.Now() }

// Entry is one cached attachment
type Entry struct {
	Content  []byte
	MIMEType string
	Filename string
}

type cachedEntry struct {
	Entry
	storedAt time.Time
}

// Cache is a bounded TTL cache for transient attachment bytes
type Cache struct {
	mu         sync.Mutex
	entries    map[string]cachedEntry
	ttl        time.Duration
	maxEntries int
	clock      Clock
	logger     *zap.Logger
}

// NewCache creates a new Cache. maxEntries <= 0 means unbounded.
func NewCache(ttl time.Duration, maxEntries int, clock Clock, logger *zap.Logger) *Cache {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Cache{
		entries:    make(map[string]cachedEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      clock,
		logger:     logger,
	}
}

// Put stores an attachment under id, replacing any previous entry. When
// the cache is full the oldest entry makes room.
func (c *Cache) Put(id string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.evictExpiredLocked(now)

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[id]; !exists {
			c.evictOldestLocked()
		}
	}

	c.entries[id] = cachedEntry{Entry: entry, storedAt: now}
}

// Get returns the entry for id if present and not expired
func (c *Cache) Get(id string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.entries[id]
	if !ok {
		return Entry{}, false
	}
	if c.clock.Now().Sub(cached.storedAt) > c.ttl {
		delete(c.entries, id)
		return Entry{}, false
	}
	return cached.Entry, true
}

// Delete removes an entry
func (c *Cache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Len returns the number of entries, expired ones included until the
// next sweep
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes all expired entries and returns how many were dropped.
// Wired to a scheduled job by the caller.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := c.evictExpiredLocked(c.clock.Now())
	if dropped > 0 {
		c.logger.Debug("Swept expired attachments",
			zap.Int("dropped", dropped),
			zap.Int("remaining", len(c.entries)))
	}
	return dropped
}

func (c *Cache) evictExpiredLocked(now time.Time) int {
	dropped := 0
	for id, cached := range c.entries {
		if now.Sub(cached.storedAt) > c.ttl {
			delete(c.entries, id)
			dropped++
		}
	}
	return dropped
}

func (c *Cache) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	first := true
	for id, cached := range c.entries {
		if first || cached.storedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = cached.storedAt
			first = false
		}
	}
	if oldestID != "" {
		delete(c.entries, oldestID)
	}
}
