package controller

import (
	"sync"
	"time"

	"github.com/zonesync-proto/zonesync/internal/envelope"
)

// Aggregator owns the responses collected during one wait window. The bus
// delivery goroutine appends while the console goroutine waits, so every
// access to the collection takes the lock.
type Aggregator struct {
	mu        sync.Mutex
	responses []envelope.Response
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Clear drops the previous window's responses.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = nil
}

// Append records one classified response in arrival order.
func (a *Aggregator) Append(r envelope.Response) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = append(a.responses, r)
}

// Snapshot returns a copy of the current window's responses.
func (a *Aggregator) Snapshot() []envelope.Response {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]envelope.Response, len(a.responses))
	copy(out, a.responses)
	return out
}

// Collect sleeps out the wait window, then snapshots. The window is fixed: it
// does not end early however many replies have arrived. The lock is not held
// while sleeping.
func (a *Aggregator) Collect(d time.Duration) []envelope.Response {
	time.Sleep(d)
	return a.Snapshot()
}
