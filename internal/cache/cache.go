// Package cache provides the read-through cache in front of the order and
// position stores. Keys are derived from the read operation and its
// parameters; invalidation is deliberately coarse: any mutation wipes the
// whole namespace for the affected entity type. Correctness over hit rate.
package cache

import (
	"strings"
	"sync"
)

// Entity namespaces.
const (
	NamespaceOrders    = "orders"
	NamespacePositions = "positions"
)

type Cache struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]interface{}
}

func New() *Cache {
	return &Cache{
		namespaces: make(map[string]map[string]interface{}),
	}
}

// Key builds a cache key from an operation name and its parameters.
func Key(op string, params ...string) string {
	if len(params) == 0 {
		return op
	}
	return op + ":" + strings.Join(params, ":")
}

// Get returns the cached value for key within the namespace, if present.
func (c *Cache) Get(namespace, key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ns, ok := c.namespaces[namespace]
	if !ok {
		return nil, false
	}
	v, ok := ns[key]
	return v, ok
}

// Set stores a value under key within the namespace.
func (c *Cache) Set(namespace, key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ns, ok := c.namespaces[namespace]
	if !ok {
		ns = make(map[string]interface{})
		c.namespaces[namespace] = ns
	}
	ns[key] = value
}

// Invalidate drops every entry in each given namespace. Mutating operations
// call this before returning so no caller observes a stale read after a
// write.
func (c *Cache) Invalidate(namespaces ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ns := range namespaces {
		delete(c.namespaces, ns)
	}
}

// Len reports the number of live entries in a namespace.
func (c *Cache) Len(namespace string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.namespaces[namespace])
}
