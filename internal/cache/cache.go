// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

// FIFO is a generic bounded cache with first-in first-out eviction.
// When an insertion would exceed the capacity, the oldest inserted entry is
// evicted first; reads never change eviction order.
//
// An optional eviction callback runs synchronously for every entry that
// leaves the cache through eviction, Delete or Clear, before the operation
// that triggered it continues. Owners of GPU handles use it to release the
// handle so no entry outlives its eviction.
//
// FIFO is not safe for concurrent use.
type FIFO[K comparable, V any] struct {
	entries  map[K]*fifoEntry[K, V]
	order    orderList[K]
	capacity int
	onEvict  func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

type fifoEntry[K comparable, V any] struct {
	value V
	node  *orderNode[K]
}

// New creates a new FIFO cache holding at most capacity entries.
// A capacity of 0 or less means unlimited.
func New[K comparable, V any](capacity int) *FIFO[K, V] {
	return &FIFO[K, V]{
		entries:  make(map[K]*fifoEntry[K, V]),
		capacity: capacity,
	}
}

// OnEvict sets the callback invoked for every removed entry.
func (c *FIFO[K, V]) OnEvict(fn func(K, V)) {
	c.onEvict = fn
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *FIFO[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores a value in the cache. Replacing an existing key keeps its
// insertion position and releases the previous value through the eviction
// callback. Inserting a new key into a full cache evicts the oldest entry
// first.
func (c *FIFO[K, V]) Set(key K, value V) {
	if e, ok := c.entries[key]; ok {
		old := e.value
		e.value = value
		if c.onEvict != nil {
			c.onEvict(key, old)
		}
		return
	}
	c.makeRoom()
	c.entries[key] = &fifoEntry[K, V]{
		value: value,
		node:  c.order.PushFront(key),
	}
}

// GetOrCreate returns the cached value or creates, stores and returns it.
// On a miss in a full cache the oldest entry is evicted before create
// runs, so the cache never holds more than capacity values. If create
// fails nothing is stored.
func (c *FIFO[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	c.makeRoom()
	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *FIFO[K, V]) Delete(key K) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.remove(key, e)
	return true
}

// Clear removes all entries from the cache, oldest first.
func (c *FIFO[K, V]) Clear() {
	entries := c.entries
	c.entries = make(map[K]*fifoEntry[K, V])
	if c.onEvict != nil {
		c.order.Each(func(k K) {
			c.onEvict(k, entries[k].value)
		})
	}
	c.order.Clear()
}

// Len returns the number of entries in the cache.
func (c *FIFO[K, V]) Len() int {
	return len(c.entries)
}

// Capacity returns the entry bound of the cache.
func (c *FIFO[K, V]) Capacity() int {
	return c.capacity
}

// Oldest returns the key that would be evicted next.
func (c *FIFO[K, V]) Oldest() (K, bool) {
	return c.order.Oldest()
}

// Stats returns cache statistics.
func (c *FIFO[K, V]) Stats() Stats {
	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// makeRoom evicts oldest entries until one more entry fits.
func (c *FIFO[K, V]) makeRoom() {
	if c.capacity <= 0 {
		return
	}
	for len(c.entries) >= c.capacity {
		key, ok := c.order.Oldest()
		if !ok {
			return
		}
		c.evictions++
		c.remove(key, c.entries[key])
	}
}

func (c *FIFO[K, V]) remove(key K, e *fifoEntry[K, V]) {
	delete(c.entries, key)
	c.order.Remove(e.node)
	if c.onEvict != nil {
		c.onEvict(key, e.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the entry bound (0 means unlimited).
	Capacity int
	// Hits is the number of successful lookups.
	Hits uint64
	// Misses is the number of failed lookups.
	Misses uint64
	// HitRate is the hit rate 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of entries evicted to make room.
	Evictions uint64
}
