package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/daftarapp/daftar-api/pkg/logger"
)

// channelName is the Redis pub/sub channel all instances share.
const channelName = "daftar:changes"

// RedisBus fans change events out across API instances through Redis
// pub/sub. Local subscribers are served by an embedded MemoryBus fed from
// the Redis subscription, so events published by any instance reach every
// instance's event streams.
type RedisBus struct {
	client *redis.Client
	pubsub *redis.PubSub
	local  *MemoryBus
	done   chan struct{}
}

// NewRedisBus connects to Redis and starts the subscription loop.
func NewRedisBus(ctx context.Context, addr, password string) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	b := &RedisBus{
		client: client,
		pubsub: client.Subscribe(ctx, channelName),
		local:  NewMemoryBus(),
		done:   make(chan struct{}),
	}
	go b.receive()
	return b, nil
}

// Publish sends the event through Redis; delivery to local subscribers
// happens when it comes back on the subscription, same as for remote
// instances.
func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelName, payload).Err()
}

func (b *RedisBus) receive() {
	for msg := range b.pubsub.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logger.Warn("Dropping malformed change event", "error", err)
			continue
		}
		// Count here rather than in Publish so each instance counts what
		// it actually delivered.
		_ = b.local.Publish(context.Background(), ev)
	}
	close(b.done)
}

// Subscribe registers a local subscriber.
func (b *RedisBus) Subscribe() (<-chan Event, func()) {
	return b.local.Subscribe()
}

// Close tears down the Redis subscription and all local subscribers.
func (b *RedisBus) Close() error {
	err := b.pubsub.Close()
	<-b.done
	if cerr := b.local.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := b.client.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
