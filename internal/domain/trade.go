package domain

import "time"

// TradeDirection is the side of a trade.
type TradeDirection string

const (
	DirectionBuy  TradeDirection = "buy"
	DirectionSell TradeDirection = "sell"
)

// Trade is a closed trade record.
type Trade struct {
	ID         string         `json:"id"`
	Symbol     string         `json:"symbol"`
	Direction  TradeDirection `json:"direction"`
	Volume     float64        `json:"volume"`
	OpenPrice  float64        `json:"open_price"`
	ClosePrice float64        `json:"close_price"`
	Profit     float64        `json:"profit"`
	OpenedAt   time.Time      `json:"opened_at"`
	ClosedAt   time.Time      `json:"closed_at"`
}

// Position is a currently open trade.
type Position struct {
	ID           string         `json:"id"`
	Symbol       string         `json:"symbol"`
	Direction    TradeDirection `json:"direction"`
	Volume       float64        `json:"volume"`
	OpenPrice    float64        `json:"open_price"`
	CurrentPrice float64        `json:"current_price"`
	Profit       float64        `json:"profit"`
	OpenedAt     time.Time      `json:"opened_at"`
}

// BotState enumerates the run states of the trading bot.
type BotState string

const (
	BotStopped BotState = "stopped"
	BotRunning BotState = "running"
	BotPaused  BotState = "paused"
)

// BotStatus is the externally visible bot state.
type BotStatus struct {
	State     BotState   `json:"state"`
	Symbol    string     `json:"symbol"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Uptime    string     `json:"uptime"`
	OpenCount int        `json:"open_positions"`
}

// PerformanceStats aggregates closed-trade results.
type PerformanceStats struct {
	TotalTrades  int     `json:"total_trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`
	NetProfit    float64 `json:"net_profit"`
	ProfitFactor float64 `json:"profit_factor"`
}

// EquityPoint is one sample of the cumulative equity curve.
type EquityPoint struct {
	Time   time.Time `json:"time"`
	Equity float64   `json:"equity"`
}

// DailySummary aggregates one trading day.
type DailySummary struct {
	Date   string  `json:"date"`
	Trades int     `json:"trades"`
	Profit float64 `json:"profit"`
}
