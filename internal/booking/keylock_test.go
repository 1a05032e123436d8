package booking

import (
	"sync"
	"testing"
	"time"
)

func TestKeyLockMutualExclusion(t *testing.T) {
	l := NewKeyLock()
	const workers = 32

	var counter, max int
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := l.Lock(admissionKey(1, "2026-09-01"))
			defer unlock()
			mu.Lock()
			counter++
			if counter > max {
				max = counter
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			counter--
			mu.Unlock()
		}()
	}
	wg.Wait()
	if max != 1 {
		t.Fatalf("observed %d goroutines inside the same-key critical section, want 1", max)
	}
}

func TestKeyLockIndependentKeys(t *testing.T) {
	l := NewKeyLock()

	// Holding one key must not block another key.
	unlock := l.Lock(admissionKey(1, "2026-09-01"))
	defer unlock()

	done := make(chan struct{})
	go func() {
		u := l.Lock(admissionKey(2, "2026-09-01"))
		u()
		u = l.Lock(admissionKey(1, "2026-09-02"))
		u()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a different key blocked behind an unrelated holder")
	}
}

func TestKeyLockReleasesEntries(t *testing.T) {
	l := NewKeyLock()
	for i := 0; i < 100; i++ {
		unlock := l.Lock(admissionKey(uint64(i), "2026-09-01"))
		unlock()
	}
	l.mu.Lock()
	n := len(l.locks)
	l.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected lock table to be drained, still holds %d entries", n)
	}
}
