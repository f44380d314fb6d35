// Package lazy provides a memoizing container for values derived from one
// piece of input.
//
// # Slots
//
// A Cache holds a fixed set of named slots. Each slot is registered once
// with a compute function and is either not computed or computed. The first
// Get of a slot runs its compute function and stores the result; later Gets
// return the stored value until InvalidateAll clears every slot.
//
// There is no dependency tracking between slots. A compute function may read
// other slots, and after InvalidateAll they are all recomputed on demand.
//
// # Misuse
//
// Reading a key that was never registered, or registering a key twice, is a
// programming error and panics.
//
// # Thread Safety
//
// Cache is NOT thread-safe. Callers sharing one cache between goroutines
// must serialize access themselves.
package lazy

import "fmt"

type slot struct {
	compute  func() any
	value    any
	computed bool
}

// Cache is a set of lazily computed slots keyed by K.
type Cache[K comparable] struct {
	slots map[K]*slot
	order []K
}

// New creates an empty cache.
func New[K comparable]() *Cache[K] {
	return &Cache[K]{slots: make(map[K]*slot)}
}

// Value is a typed accessor for one registered slot.
type Value[K comparable, T any] struct {
	cache *Cache[K]
	key   K
}

// Register adds a slot computed by compute and returns its accessor.
// It panics if key is already registered.
func Register[K comparable, T any](c *Cache[K], key K, compute func() T) Value[K, T] {
	if _, exists := c.slots[key]; exists {
		panic(fmt.Sprintf("lazy: slot %v registered twice", key))
	}
	c.slots[key] = &slot{compute: func() any { return compute() }}
	c.order = append(c.order, key)
	return Value[K, T]{cache: c, key: key}
}

// Get returns the slot's value, computing it on first access.
func (v Value[K, T]) Get() T {
	if v.cache == nil {
		panic("lazy: Get on zero Value")
	}
	return Get[T](v.cache, v.key)
}

// Get returns the value of the slot registered under key. It panics if the
// key is unregistered or if T does not match the registered type.
func Get[T any, K comparable](c *Cache[K], key K) T {
	s, ok := c.slots[key]
	if !ok {
		panic(fmt.Sprintf("lazy: slot %v is not registered", key))
	}

	if !s.computed {
		s.value = s.compute()
		s.computed = true
	}

	value, ok := s.value.(T)
	if !ok && s.value != nil {
		panic(fmt.Sprintf("lazy: slot %v holds %T, not the requested type", key, s.value))
	}
	return value
}

// Computed reports whether the slot under key currently holds a value.
func (c *Cache[K]) Computed(key K) bool {
	s, ok := c.slots[key]
	return ok && s.computed
}

// Registered reports whether key has a slot.
func (c *Cache[K]) Registered(key K) bool {
	_, ok := c.slots[key]
	return ok
}

// Keys returns the registered keys in registration order.
func (c *Cache[K]) Keys() []K {
	keys := make([]K, len(c.order))
	copy(keys, c.order)
	return keys
}

// InvalidateAll discards every computed value.
func (c *Cache[K]) InvalidateAll() {
	for _, s := range c.slots {
		s.value = nil
		s.computed = false
	}
}
