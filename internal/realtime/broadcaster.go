package realtime

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Message is the JSON frame pushed to every live connection. Immutable;
// it is marshalled once per broadcast and fanned out by shared bytes.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Broadcaster fans messages out to every connection in the registry.
// Delivery is best-effort, at-most-once per connection live at snapshot
// time; a single connection's failure never reaches the caller.
type Broadcaster struct {
	registry *Registry
	logger   *zap.Logger
}

// NewBroadcaster builds a broadcaster over the registry.
func NewBroadcaster(registry *Registry, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, logger: logger}
}

// Broadcast enqueues the message on every open connection. A closed or full
// channel gets that connection deregistered; delivery to the remaining
// connections continues. Order across connections is unspecified, order
// within one connection is FIFO.
func (b *Broadcaster) Broadcast(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("marshal broadcast message", zap.String("type", msg.Type), zap.Error(err))
		return
	}

	for _, conn := range b.registry.Snapshot() {
		if err := conn.TrySend(data); err != nil {
			b.logger.Warn("dropping connection",
				zap.String("connection_id", string(conn.ID)),
				zap.String("reason", err.Error()))
			b.registry.Deregister(conn.ID)
		}
	}
}
