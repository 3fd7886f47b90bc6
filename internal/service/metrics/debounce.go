package metrics

import (
	"sync"
	"time"
)

// Debouncer suppresses repeat firings of the same key inside a rolling
// window. The event recorder keys on (user, event type) so a burst of
// identical action boundaries collapses into one stored event.
type Debouncer interface {
	// ShouldFire atomically checks whether the key last fired more than the
	// window ago and records the new firing if so. Returns false when the
	// firing should be suppressed.
	ShouldFire(key string, now time.Time) bool
}

// inMemoryDebouncer implements Debouncer with a process-local map. State is
// deliberately not shared across instances: debouncing is a rate limit on
// noisy clients, not a correctness guarantee, and the append-only event log
// tolerates the occasional duplicate after a restart.
type inMemoryDebouncer struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time

	// Entries older than the window are swept once the map passes this
	// size, keeping memory bounded without a background goroutine.
	pruneThreshold int
}

// NewInMemoryDebouncer creates a debouncer with the given suppression window.
// A non-positive window disables debouncing; every firing passes.
func NewInMemoryDebouncer(window time.Duration) Debouncer {
	return &inMemoryDebouncer{
		window:         window,
		last:           make(map[string]time.Time),
		pruneThreshold: 4096,
	}
}

// ShouldFire implements Debouncer.ShouldFire.
func (d *inMemoryDebouncer) ShouldFire(key string, now time.Time) bool {
	if d.window <= 0 {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.last[key]; ok && now.Sub(last) < d.window {
		return false
	}

	if len(d.last) >= d.pruneThreshold {
		d.prune(now)
	}

	d.last[key] = now
	return true
}

// prune drops entries old enough that they can no longer suppress anything.
// Caller holds the lock.
func (d *inMemoryDebouncer) prune(now time.Time) {
	for key, last := range d.last {
		if now.Sub(last) >= d.window {
			delete(d.last, key)
		}
	}
}
