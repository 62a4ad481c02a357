package filter

import (
	"container/list"
	"sync"
)

// lruCache is a thread-safe LRU cache
type lruCache[K comparable, V any] struct {
	size      int
	evictList *list.List
	items     map[K]*list.Element
	mu        sync.Mutex
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

func newLRUCache[K comparable, V any](size int) *lruCache[K, V] {
	return &lruCache[K, V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[K]*list.Element),
	}
}

// Get returns the value for key and marks it most recently used
func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.evictList.MoveToFront(node)
	return node.Value.(*entry[K, V]).value, true
}

// Put adds or updates a value, evicting the least recently used entry when full
func (c *lruCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.items[key]; ok {
		c.evictList.MoveToFront(node)
		node.Value.(*entry[K, V]).value = value
		return
	}

	c.items[key] = c.evictList.PushFront(&entry[K, V]{key: key, value: value})
	if c.evictList.Len() > c.size {
		oldest := c.evictList.Back()
		c.evictList.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[K, V]).key)
	}
}

// Clear removes all items
func (c *lruCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.evictList.Init()
}

// Size returns the number of cached items
func (c *lruCache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.evictList.Len()
}
