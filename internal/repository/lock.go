package repository

import "sync"

// keyedLock serializes operations per order id.  Each order is its own unit
// of serialization: two goroutines locking the same id are mutually
// exclusive, while different ids proceed independently.  Entries are
// reference counted and removed once the last holder releases, so the table
// does not grow with the lifetime history of orders.
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[string]*lockEntry)}
}

// Lock acquires the mutex for the given key and returns the release
// function.  The usual form is:
//
//	unlock := r.Lock(orderID)
//	defer unlock()
func (k *keyedLock) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
