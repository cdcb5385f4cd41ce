package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func drainOne(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-conn.Outbound():
		require.True(t, ok, "channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatalf("connection %s received nothing", conn.ID)
		return Message{}
	}
}

func assertEmpty(t *testing.T, conn *Connection) {
	t.Helper()
	select {
	case data, ok := <-conn.Outbound():
		if ok {
			t.Fatalf("connection %s received unexpected frame %s", conn.ID, data)
		}
	default:
	}
}

func TestBroadcastDeliversToAllLiveConnections(t *testing.T) {
	registry := NewRegistry(8)
	broadcaster := NewBroadcaster(registry, zap.NewNop())

	conns := []*Connection{registry.Register(nil), registry.Register(nil), registry.Register(nil)}

	broadcaster.Broadcast(Message{Type: "price_update", Data: map[string]interface{}{
		"symbol": "EURUSD",
		"price":  1.2345,
	}})

	for _, conn := range conns {
		msg := drainOne(t, conn)
		assert.Equal(t, "price_update", msg.Type)
		assert.False(t, msg.Timestamp.IsZero())
		assertEmpty(t, conn)
	}
}

func TestBroadcastSkipsClosedAndPrunes(t *testing.T) {
	registry := NewRegistry(8)
	broadcaster := NewBroadcaster(registry, zap.NewNop())

	first := registry.Register(nil)
	second := registry.Register(nil)
	third := registry.Register(nil)

	broadcaster.Broadcast(Message{Type: "price_update"})
	for _, conn := range []*Connection{first, second, third} {
		drainOne(t, conn)
	}

	registry.Deregister(second.ID)
	broadcaster.Broadcast(Message{Type: "price_update"})

	drainOne(t, first)
	drainOne(t, third)
	assertEmpty(t, second)
	assert.Equal(t, 2, registry.Size())
}

func TestBroadcastPrunesStalledConnection(t *testing.T) {
	registry := NewRegistry(1)
	broadcaster := NewBroadcaster(registry, zap.NewNop())

	healthy := registry.Register(nil)
	stalled := registry.Register(nil)

	// fill the stalled connection's buffer without draining it
	require.NoError(t, stalled.TrySend([]byte("backlog")))

	broadcaster.Broadcast(Message{Type: "bot_status"})

	// the stalled consumer is dropped, the healthy one still gets the frame
	assert.Equal(t, 1, registry.Size())
	drainOne(t, healthy)
	assert.Equal(t, StateClosed, stalled.State())
}

func TestBroadcastPerConnectionFIFO(t *testing.T) {
	registry := NewRegistry(8)
	broadcaster := NewBroadcaster(registry, zap.NewNop())

	conn := registry.Register(nil)

	broadcaster.Broadcast(Message{Type: "first"})
	broadcaster.Broadcast(Message{Type: "second"})
	broadcaster.Broadcast(Message{Type: "third"})

	assert.Equal(t, "first", drainOne(t, conn).Type)
	assert.Equal(t, "second", drainOne(t, conn).Type)
	assert.Equal(t, "third", drainOne(t, conn).Type)
}

func TestBroadcastConcurrentWithDeregister(t *testing.T) {
	registry := NewRegistry(4)
	broadcaster := NewBroadcaster(registry, zap.NewNop())

	conns := make([]*Connection, 20)
	for i := range conns {
		conns[i] = registry.Register(nil)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, conn := range conns {
			registry.Deregister(conn.ID)
		}
	}()

	// must never panic or error while connections close underneath it
	for i := 0; i < 50; i++ {
		broadcaster.Broadcast(Message{Type: "price_update"})
	}
	<-done

	assert.Equal(t, 0, registry.Size())
}
