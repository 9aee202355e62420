package trading

import "sync"

// keyedLocks serializes mutations per order code. Two concurrent mutations
// of the same order never interleave; unrelated orders proceed in parallel.
// Entries are reference counted and dropped on release, so the map only
// holds orders with a mutation in flight.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*orderLock
}

type orderLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*orderLock)}
}

// acquire locks the mutex for key and returns the release function. The
// map entry is evicted once the last holder releases.
func (k *keyedLocks) acquire(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &orderLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
