// Package kmutex provides a mutex keyed by an integer identifier. It is used
// to serialize read-modify-write sequences per user: operations on the same
// key are strictly ordered, operations on different keys proceed in parallel.
package kmutex

import "sync"

type lock struct {
	mu   sync.Mutex
	refs int
}

// KMutex is a set of mutexes addressed by key. The zero value is not usable;
// call New.
type KMutex struct {
	mu    sync.Mutex
	locks map[int64]*lock
}

// New creates an empty KMutex.
func New() *KMutex {
	return &KMutex{locks: make(map[int64]*lock)}
}

// Lock acquires the mutex for key, creating it on first use.
func (k *KMutex) Lock(key int64) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &lock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the mutex for key. The entry is dropped once no goroutine
// holds or waits on it, so the map does not grow with the key space.
func (k *KMutex) Unlock(key int64) {
	k.mu.Lock()
	l := k.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}
