package booking

import (
	"fmt"
	"sync"
)

// KeyLock provides mutual exclusion per string key.  The admission
// controller uses it to serialize decisions for the same (room, day)
// pair while letting different rooms, or the same room on different
// days, proceed fully in parallel.  Locks are reference counted so the
// internal map does not grow with the number of keys ever seen.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyLock returns an empty KeyLock.
func NewKeyLock() *KeyLock {
	return &KeyLock{locks: make(map[string]*keyLockEntry)}
}

// Lock acquires the mutex for key and returns the matching unlock
// function.  Callers must invoke the returned function exactly once,
// typically via defer.
func (l *KeyLock) Lock(key string) func() {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &keyLockEntry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// admissionKey builds the exclusion-scope key for a room and day.
func admissionKey(roomID uint64, day string) string {
	return fmt.Sprintf("%d/%s", roomID, day)
}
