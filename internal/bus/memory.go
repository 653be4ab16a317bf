package bus

import (
	"context"
	"errors"
	"sync"
	"time"
)

type event struct {
	topic   string
	payload []byte
}

// MemoryBus is an in-process Bus used for loopback mode and tests. A single
// dispatch goroutine delivers payloads in publish order, matching the
// per-publisher ordering the deployment transport provides.
type MemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler

	events    chan event
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryBus creates a MemoryBus with the given publish buffer and starts
// its dispatch loop.
func NewMemoryBus(buffer int) *MemoryBus {
	b := &MemoryBus{
		subscribers: make(map[string][]Handler),
		events:      make(chan event, buffer),
		done:        make(chan struct{}),
	}
	go b.loop()
	return b
}

// Publish enqueues payload for delivery. A full buffer is reported as an
// error rather than blocking the caller indefinitely.
func (b *MemoryBus) Publish(ctx context.Context, topic string, payload []byte) error {
	select {
	case b.events <- event{topic: topic, payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return errors.New("bus closed")
	case <-time.After(50 * time.Millisecond):
		return errors.New("bus full, payload dropped")
	}
}

// Subscribe registers h for exact-match deliveries on topic.
func (b *MemoryBus) Subscribe(_ context.Context, topic string, h Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[topic] = append(b.subscribers[topic], h)
	return nil
}

// Close stops the dispatch loop. Payloads still in the buffer are dropped.
func (b *MemoryBus) Close() error {
	b.closeOnce.Do(func() { close(b.done) })
	return nil
}

func (b *MemoryBus) loop() {
	for {
		select {
		case ev := <-b.events:
			b.dispatch(ev)
		case <-b.done:
			return
		}
	}
}

func (b *MemoryBus) dispatch(ev event) {
	b.mu.RLock()
	handlers := b.subscribers[ev.topic]
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev.topic, ev.payload)
	}
}
