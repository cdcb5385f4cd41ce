package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/eden-labs/trading-gateway/internal/events"
	"github.com/eden-labs/trading-gateway/internal/realtime"
)

// StreamService bridges trading events onto the realtime channel: every
// subscribed event becomes one broadcast to the local connections and one
// relay publication for sibling instances.
type StreamService struct {
	dispatcher  events.Dispatcher
	broadcaster *realtime.Broadcaster
	relay       *realtime.Relay
	logger      *zap.Logger
}

// NewStreamService creates the service.
func NewStreamService(dispatcher events.Dispatcher, broadcaster *realtime.Broadcaster, relay *realtime.Relay, logger *zap.Logger) *StreamService {
	return &StreamService{
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
		relay:       relay,
		logger:      logger,
	}
}

// RegisterHandlers subscribes to every event type pushed to clients.
func (s *StreamService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventPriceUpdate, s.handleEvent)
	s.dispatcher.Subscribe(events.EventTradeOpened, s.handleEvent)
	s.dispatcher.Subscribe(events.EventTradeClosed, s.handleEvent)
	s.dispatcher.Subscribe(events.EventBotStatusChanged, s.handleEvent)
}

func (s *StreamService) handleEvent(ctx context.Context, event events.Event) error {
	msg := realtime.Message{
		Type:      string(event.Type),
		Data:      event.Payload,
		Timestamp: event.Timestamp,
	}
	s.broadcaster.Broadcast(msg)
	s.relay.Publish(ctx, msg)
	s.logger.Debug("event streamed", zap.String("event_type", string(event.Type)))
	return nil
}
