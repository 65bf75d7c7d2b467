package codelist

import (
	"container/list"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Cache keeps loaded code lists with LRU eviction.
//
// Memory use is estimated from the lengths of codes and labels. A list
// larger than the limit is returned to the caller but not cached.
//
// Example:
//
//	cache := codelist.NewCache(16 * 1024 * 1024)
//	list, err := cache.Get(path, func() (codelist.List, error) {
//	    return codelist.LoadDictionary(path)
//	})
type Cache struct {
	maxMemory  int64
	usedMemory int64
	lists      map[string]*cacheEntry
	lru        *list.List // most recent at front
	mu         sync.RWMutex
}

type cacheEntry struct {
	name         string
	list         List
	memorySize   int64
	element      *list.Element
	lastAccessed time.Time
	accessCount  int
}

// NewCache creates a cache limited to maxMemoryBytes. Zero means unlimited.
func NewCache(maxMemoryBytes int64) *Cache {
	return &Cache{
		maxMemory: maxMemoryBytes,
		lists:     make(map[string]*cacheEntry),
		lru:       list.New(),
	}
}

// Get returns the cached list or loads it with loader on a miss.
func (c *Cache) Get(name string, loader func() (List, error)) (List, error) {
	c.mu.Lock()
	if entry, ok := c.lists[name]; ok {
		entry.lastAccessed = time.Now()
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		l := entry.list
		c.mu.Unlock()
		return l, nil
	}
	c.mu.Unlock()

	l, err := loader()
	if err != nil {
		return nil, errors.Wrap(err, "load code list")
	}

	// A list too large to cache is still usable.
	_ = c.Add(name, l)
	return l, nil
}

// Add stores a list, evicting least-recently-used lists to make room. A
// list already cached under name is replaced by a new entry.
func (c *Cache) Add(name string, l List) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	accessCount := 1
	if entry, ok := c.lists[name]; ok {
		accessCount += entry.accessCount
		c.removeEntry(entry)
	}

	memSize := l.memorySize()
	if c.maxMemory > 0 && memSize > c.maxMemory {
		return errors.Errorf("code list too large for cache (%d bytes > %d bytes max)", memSize, c.maxMemory)
	}

	if c.maxMemory > 0 {
		for c.usedMemory+memSize > c.maxMemory && c.lru.Len() > 0 {
			c.evictLRU()
		}
	}

	entry := &cacheEntry{
		name:         name,
		list:         l,
		memorySize:   memSize,
		lastAccessed: time.Now(),
		accessCount:  accessCount,
	}
	entry.element = c.lru.PushFront(entry)
	c.lists[name] = entry
	c.usedMemory += memSize
	return nil
}

// evictLRU removes the least recently used list. c.mu must be held.
func (c *Cache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	c.removeEntry(elem.Value.(*cacheEntry))
}

// removeEntry unlinks entry. c.mu must be held.
func (c *Cache) removeEntry(entry *cacheEntry) {
	c.lru.Remove(entry.element)
	delete(c.lists, entry.name)
	c.usedMemory -= entry.memorySize
}

// Remove drops a list from the cache.
func (c *Cache) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.lists[name]; ok {
		c.removeEntry(entry)
	}
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lists = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, entry := range c.lists {
		total += entry.accessCount
	}
	return CacheStats{
		ListCount:   len(c.lists),
		UsedMemory:  c.usedMemory,
		MaxMemory:   c.maxMemory,
		TotalAccess: total,
	}
}

// CacheStats holds cache metrics.
type CacheStats struct {
	ListCount   int   // Number of lists currently cached
	UsedMemory  int64 // Estimated memory usage in bytes
	MaxMemory   int64 // Maximum memory limit in bytes
	TotalAccess int   // Accesses across all cached lists
}
