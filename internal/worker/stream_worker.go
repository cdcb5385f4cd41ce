package worker

import (
	"context"
	"time"

	"github.com/eden-labs/trading-gateway/internal/realtime"
	"github.com/eden-labs/trading-gateway/internal/service"
)

// StartStreamWorker wires event fan-out and runs the background producers:
// the trading service's market loop and the cross-instance relay.
func StartStreamWorker(ctx context.Context, stream *service.StreamService, trading *service.TradingService, relay *realtime.Relay, tickInterval time.Duration) {
	if stream == nil || trading == nil {
		return
	}
	stream.RegisterHandlers()

	go trading.Run(ctx, tickInterval)
	go relay.Run(ctx)
}
