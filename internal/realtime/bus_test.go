package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	ch1, cancel1 := bus.Subscribe()
	defer cancel1()
	ch2, cancel2 := bus.Subscribe()
	defer cancel2()

	ev := Event{Table: "customers", Action: ActionInsert, ID: "abc"}
	require.NoError(t, bus.Publish(context.Background(), ev))

	assert.Equal(t, ev, <-ch1)
	assert.Equal(t, ev, <-ch2)
}

func TestMemoryBusCancelStopsDelivery(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	cancel()

	// Channel is closed on cancel; publish must not panic or block.
	require.NoError(t, bus.Publish(context.Background(), Event{Table: "payments", Action: ActionDelete, ID: "x"}))
	_, open := <-ch
	assert.False(t, open)
}

func TestMemoryBusDropsWhenSubscriberLags(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	_, cancel := bus.Subscribe()
	defer cancel()

	// Far more events than the subscriber buffer holds; Publish must not
	// block even though nobody is draining.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			_ = bus.Publish(context.Background(), Event{Table: "transactions", Action: ActionUpdate, ID: "t"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a lagging subscriber")
	}
}

func TestMemoryBusSubscribeAfterClose(t *testing.T) {
	bus := NewMemoryBus()
	require.NoError(t, bus.Close())

	ch, cancel := bus.Subscribe()
	defer cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestRedisBusRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	ctx := context.Background()
	bus, err := NewRedisBus(ctx, mr.Addr(), "")
	require.NoError(t, err)
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	defer cancel()

	ev := Event{Table: "payments", Action: ActionInsert, ID: "p1"}
	require.NoError(t, bus.Publish(ctx, ev))

	select {
	case got := <-ch:
		assert.Equal(t, ev, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event did not come back through redis")
	}
}

func TestRedisBusConnectFailure(t *testing.T) {
	_, err := NewRedisBus(context.Background(), "127.0.0.1:1", "")
	assert.Error(t, err)
}
