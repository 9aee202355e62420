package trading

import (
	"sync"
	"testing"
)

func TestKeyedLocksSerializeAndEvict(t *testing.T) {
	locks := newKeyedLocks()

	release := locks.acquire("ORD-AAAA0001")
	release()

	// Contended key: the lock must serialize the critical section and the
	// entry must disappear once the last holder releases.
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.acquire("ORD-AAAA0002")
			counter++
			release()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}

	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.locks) != 0 {
		t.Errorf("%d lock entries retained after release, want 0", len(locks.locks))
	}
}
