package service

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eden-labs/trading-gateway/internal/domain"
	"github.com/eden-labs/trading-gateway/internal/events"
	"github.com/eden-labs/trading-gateway/internal/repository"
)

// ErrPositionNotFound is returned when closing a symbol with no open
// position.
var ErrPositionNotFound = errors.New("position not found")

const defaultSymbol = "EURUSD"

// takeProfitThreshold is the simulated strategy's exit level per lot.
const takeProfitThreshold = 25.0

// TradingService is the collaborator behind the API: it owns the bot state
// machine and open positions, persists closed trades, aggregates
// performance, and produces trading events through the dispatcher.
type TradingService struct {
	trades     repository.TradeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu        sync.RWMutex
	state     domain.BotState
	startedAt *time.Time
	symbol    string
	price     float64
	positions map[string]*domain.Position
	rng       *rand.Rand
}

// NewTradingService builds the service in the stopped state.
func NewTradingService(trades repository.TradeRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TradingService {
	return &TradingService{
		trades:     trades,
		dispatcher: dispatcher,
		logger:     logger,
		state:      domain.BotStopped,
		symbol:     defaultSymbol,
		price:      1.1000,
		positions:  make(map[string]*domain.Position),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BotStatus reports the current bot state.
func (s *TradingService) BotStatus() domain.BotStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := domain.BotStatus{
		State:     s.state,
		Symbol:    s.symbol,
		StartedAt: s.startedAt,
		OpenCount: len(s.positions),
	}
	if s.startedAt != nil {
		status.Uptime = time.Since(*s.startedAt).Round(time.Second).String()
	}
	return status
}

// StartBot moves the bot to running.
func (s *TradingService) StartBot(ctx context.Context) {
	s.mu.Lock()
	if s.state != domain.BotRunning {
		now := time.Now()
		s.state = domain.BotRunning
		if s.startedAt == nil {
			s.startedAt = &now
		}
	}
	s.mu.Unlock()
	s.emitBotStatus(ctx)
}

// PauseBot suspends trading without clearing position state.
func (s *TradingService) PauseBot(ctx context.Context) {
	s.mu.Lock()
	if s.state == domain.BotRunning {
		s.state = domain.BotPaused
	}
	s.mu.Unlock()
	s.emitBotStatus(ctx)
}

// StopBot halts the bot and forgets its start time.
func (s *TradingService) StopBot(ctx context.Context) {
	s.mu.Lock()
	s.state = domain.BotStopped
	s.startedAt = nil
	s.mu.Unlock()
	s.emitBotStatus(ctx)
}

// OpenPositions lists the currently open positions.
func (s *TradingService) OpenPositions() []domain.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Position, 0, len(s.positions))
	for _, p := range s.positions {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out
}

// TradeHistory returns the most recent closed trades.
func (s *TradingService) TradeHistory(ctx context.Context, limit int) ([]domain.Trade, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.trades.List(ctx, limit)
}

// RecentTrades returns trades closed within the last N days.
func (s *TradingService) RecentTrades(ctx context.Context, days int) ([]domain.Trade, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.trades.ListSince(ctx, since)
}

// ClosePosition closes the open position for the symbol at the current
// price, persists the resulting trade and emits a trade_closed event.
func (s *TradingService) ClosePosition(ctx context.Context, symbol string) (*domain.Trade, error) {
	s.mu.Lock()
	pos, ok := s.positions[symbol]
	if !ok {
		s.mu.Unlock()
		return nil, ErrPositionNotFound
	}
	delete(s.positions, symbol)
	closePrice := s.price
	s.mu.Unlock()

	trade := &domain.Trade{
		Symbol:     pos.Symbol,
		Direction:  pos.Direction,
		Volume:     pos.Volume,
		OpenPrice:  pos.OpenPrice,
		ClosePrice: closePrice,
		Profit:     positionProfit(pos.Direction, pos.OpenPrice, closePrice, pos.Volume),
		OpenedAt:   pos.OpenedAt,
		ClosedAt:   time.Now(),
	}
	if err := s.trades.Insert(ctx, trade); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTradeClosed, events.TradeClosedPayload{Trade: *trade})
	return trade, nil
}

// PerformanceStats aggregates all closed trades.
func (s *TradingService) PerformanceStats(ctx context.Context) (domain.PerformanceStats, error) {
	trades, err := s.trades.List(ctx, 0)
	if err != nil {
		return domain.PerformanceStats{}, err
	}

	stats := domain.PerformanceStats{TotalTrades: len(trades)}
	for _, t := range trades {
		if t.Profit >= 0 {
			stats.Wins++
			stats.GrossProfit += t.Profit
		} else {
			stats.Losses++
			stats.GrossLoss += math.Abs(t.Profit)
		}
	}
	stats.NetProfit = stats.GrossProfit - stats.GrossLoss
	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalTrades)
	}
	if stats.GrossLoss > 0 {
		stats.ProfitFactor = stats.GrossProfit / stats.GrossLoss
	}
	return stats, nil
}

// EquityCurve returns the cumulative profit over closed trades in close
// order.
func (s *TradingService) EquityCurve(ctx context.Context) ([]domain.EquityPoint, error) {
	trades, err := s.trades.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	sort.Slice(trades, func(i, j int) bool { return trades[i].ClosedAt.Before(trades[j].ClosedAt) })

	curve := make([]domain.EquityPoint, 0, len(trades))
	equity := 0.0
	for _, t := range trades {
		equity += t.Profit
		curve = append(curve, domain.EquityPoint{Time: t.ClosedAt, Equity: equity})
	}
	return curve, nil
}

// DailySummary groups closed trades by calendar day.
func (s *TradingService) DailySummary(ctx context.Context) ([]domain.DailySummary, error) {
	trades, err := s.trades.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*domain.DailySummary)
	for _, t := range trades {
		day := t.ClosedAt.Format("2006-01-02")
		summary, ok := byDay[day]
		if !ok {
			summary = &domain.DailySummary{Date: day}
			byDay[day] = summary
		}
		summary.Trades++
		summary.Profit += t.Profit
	}

	out := make([]domain.DailySummary, 0, len(byDay))
	for _, summary := range byDay {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// Run drives the simulated market until the context is cancelled: price
// ticks are emitted on every interval, and while the bot is running the
// demo strategy opens a position on the default symbol and exits once its
// profit target is hit. Real strategy logic lives outside this service.
func (s *TradingService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *TradingService) tick(ctx context.Context) {
	s.mu.Lock()
	s.price += (s.rng.Float64() - 0.5) * 0.002
	s.price = math.Max(s.price, 0.0001)
	price := s.price
	for _, pos := range s.positions {
		pos.CurrentPrice = price
		pos.Profit = positionProfit(pos.Direction, pos.OpenPrice, price, pos.Volume)
	}
	running := s.state == domain.BotRunning
	_, hasPosition := s.positions[s.symbol]
	symbol := s.symbol
	s.mu.Unlock()

	s.publish(ctx, events.EventPriceUpdate, events.PriceUpdatePayload{
		Symbol: symbol,
		Price:  price,
		Bid:    price - 0.0001,
		Ask:    price + 0.0001,
	})

	if !running {
		return
	}

	if !hasPosition {
		pos := s.openPosition(symbol, price)
		s.publish(ctx, events.EventTradeOpened, events.TradeOpenedPayload{Position: pos})
		return
	}

	s.mu.RLock()
	pos := s.positions[symbol]
	var profit float64
	if pos != nil {
		profit = pos.Profit
	}
	s.mu.RUnlock()

	if pos != nil && math.Abs(profit) >= takeProfitThreshold {
		if _, err := s.ClosePosition(ctx, symbol); err != nil && !errors.Is(err, ErrPositionNotFound) {
			s.logger.Warn("auto-close failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
}

func (s *TradingService) openPosition(symbol string, price float64) domain.Position {
	direction := domain.DirectionBuy
	if s.rng.Intn(2) == 1 {
		direction = domain.DirectionSell
	}
	pos := &domain.Position{
		ID:           uuid.NewString(),
		Symbol:       symbol,
		Direction:    direction,
		Volume:       0.1,
		OpenPrice:    price,
		CurrentPrice: price,
		OpenedAt:     time.Now(),
	}

	s.mu.Lock()
	s.positions[symbol] = pos
	s.mu.Unlock()
	return *pos
}

func (s *TradingService) emitBotStatus(ctx context.Context) {
	s.publish(ctx, events.EventBotStatusChanged, events.BotStatusPayload{Status: s.BotStatus()})
}

func (s *TradingService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func positionProfit(direction domain.TradeDirection, openPrice, currentPrice, volume float64) float64 {
	delta := currentPrice - openPrice
	if direction == domain.DirectionSell {
		delta = -delta
	}
	// 100k contract size per lot, the usual FX convention
	return delta * volume * 100000
}
