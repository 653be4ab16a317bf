package bus

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBus carries the channel over Redis pub/sub.
type RedisBus struct {
	client *redis.Client

	mu   sync.Mutex
	subs []*redis.PubSub
}

// NewRedisBus connects to the broker at redisURL.
func NewRedisBus(ctx context.Context, redisURL string) (*RedisBus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisBus{client: client}, nil
}

// Publish broadcasts payload to every subscriber of topic.
func (b *RedisBus) Publish(ctx context.Context, topic string, payload []byte) error {
	return b.client.Publish(ctx, topic, payload).Err()
}

// Subscribe registers h for topic and starts delivering in a background
// goroutine. Delivery stops when the bus is closed.
func (b *RedisBus) Subscribe(ctx context.Context, topic string, h Handler) error {
	sub := b.client.Subscribe(ctx, topic)

	// Confirm the subscription before reporting success.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	go func() {
		for msg := range sub.Channel() {
			h(msg.Channel, []byte(msg.Payload))
		}
	}()

	return nil
}

// Close tears down all subscriptions and the client connection.
func (b *RedisBus) Close() error {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	return b.client.Close()
}
