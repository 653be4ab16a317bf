// Package bus abstracts the shared publish/subscribe transport the channel
// rides on. Delivery is at-most-once; ordering is only guaranteed among one
// publisher's successive publishes.
package bus

import (
	"context"
	"strings"
)

// Handler consumes one delivered payload.
type Handler func(topic string, payload []byte)

// Bus is the minimal transport contract: publish bytes to a topic, get bytes
// back from a topic. Everything else about the transport is someone else's
// problem.
type Bus interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string, h Handler) error
	Close() error
}

// Connect opens the transport named by url: "memory" for the in-process
// loopback, anything else is treated as a Redis URL.
func Connect(ctx context.Context, url string) (Bus, error) {
	if strings.EqualFold(url, "memory") {
		return NewMemoryBus(64), nil
	}
	return NewRedisBus(ctx, url)
}
