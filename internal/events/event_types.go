package events

import (
	"time"

	"github.com/eden-labs/trading-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPriceUpdate      EventType = "price_update"
	EventTradeOpened      EventType = "trade_opened"
	EventTradeClosed      EventType = "trade_closed"
	EventBotStatusChanged EventType = "bot_status"
)

// Event represents a domain event emitted by the trading service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PriceUpdatePayload payload.
type PriceUpdatePayload struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
}

// TradeOpenedPayload payload.
type TradeOpenedPayload struct {
	Position domain.Position `json:"position"`
}

// TradeClosedPayload payload.
type TradeClosedPayload struct {
	Trade domain.Trade `json:"trade"`
}

// BotStatusPayload payload.
type BotStatusPayload struct {
	Status domain.BotStatus `json:"status"`
}
