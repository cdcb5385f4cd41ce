package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// relayEnvelope wraps a message on the wire with the publishing instance id
// so subscribers can skip their own publications.
type relayEnvelope struct {
	Origin  string  `json:"origin"`
	Message Message `json:"message"`
}

// Relay bridges broadcasts between gateway instances over a Redis pub/sub
// channel. Each instance publishes its locally produced events and replays
// remote ones into its own broadcaster.
type Relay struct {
	client      *redis.Client
	channel     string
	broadcaster *Broadcaster
	logger      *zap.Logger
	instanceID  string
}

// NewRelay builds a relay over an existing Redis client. A nil client
// yields a disabled relay whose methods are no-ops.
func NewRelay(client *redis.Client, channel string, broadcaster *Broadcaster, logger *zap.Logger) *Relay {
	return &Relay{
		client:      client,
		channel:     channel,
		broadcaster: broadcaster,
		logger:      logger,
		instanceID:  uuid.NewString(),
	}
}

// Publish sends a locally produced message to the other instances.
// Failures are logged, never surfaced: the local broadcast already
// happened and must not be affected.
func (r *Relay) Publish(ctx context.Context, msg Message) {
	if r == nil || r.client == nil {
		return
	}
	payload, err := json.Marshal(relayEnvelope{Origin: r.instanceID, Message: msg})
	if err != nil {
		r.logger.Error("marshal relay envelope", zap.Error(err))
		return
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Warn("relay publish failed", zap.Error(err))
	}
}

// Run subscribes and replays remote messages until the context is
// cancelled. Intended to run in its own goroutine.
func (r *Relay) Run(ctx context.Context) {
	if r == nil || r.client == nil {
		return
	}
	sub := r.client.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env relayEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.logger.Warn("drop malformed relay payload", zap.Error(err))
				continue
			}
			if env.Origin == r.instanceID {
				continue
			}
			r.broadcaster.Broadcast(env.Message)
		}
	}
}
