// Package realtime is the change-notification side of the record store:
// every successful mutation publishes a table-level event, and clients hold
// an event-stream subscription to know when to re-fetch. Balance math never
// depends on this feed; it recomputes from whatever snapshot a query
// returns.
package realtime

import (
	"context"
	"sync"

	"github.com/daftarapp/daftar-api/pkg/metrics"
)

// Actions mirror the row operations a subscriber may react to.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Event describes one committed change to a table row. Payloads carry only
// identity; subscribers re-fetch the rows they care about.
type Event struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	ID     string `json:"id"`
}

// Bus delivers change events to subscribers.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe returns a channel of events and a cancel function that
	// must be called when the subscriber goes away.
	Subscribe() (<-chan Event, func())
	Close() error
}

// subscriberBuffer bounds how far a slow subscriber may lag before events
// are dropped. Dropped events are safe: the client re-fetches on the next
// event anyway.
const subscriberBuffer = 16

// MemoryBus fans events out to in-process subscribers. It backs
// single-instance deployments and serves as the local delivery stage of the
// Redis bus.
type MemoryBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	closed bool
}

// NewMemoryBus creates an in-process change-event bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[int]chan Event)}
}

// Publish delivers the event to every live subscriber without blocking on
// slow ones.
func (b *MemoryBus) Publish(ctx context.Context, ev Event) error {
	metrics.CountChangeEvent(ev.Table, ev.Action)
	b.dispatch(ev)
	return nil
}

func (b *MemoryBus) dispatch(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a new subscriber channel.
func (b *MemoryBus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return nil
}
