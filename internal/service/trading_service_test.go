package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eden-labs/trading-gateway/internal/domain"
	"github.com/eden-labs/trading-gateway/internal/events"
	"github.com/eden-labs/trading-gateway/internal/repository"
)

// captureDispatcher records published events for assertions.
type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []events.Event{}
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestTradingService() (*TradingService, *captureDispatcher) {
	dispatcher := &captureDispatcher{}
	svc := NewTradingService(repository.NewMemoryTradeRepository(), dispatcher, zap.NewNop())
	return svc, dispatcher
}

func TestBotLifecycle(t *testing.T) {
	svc, dispatcher := newTestTradingService()
	ctx := context.Background()

	assert.Equal(t, domain.BotStopped, svc.BotStatus().State)

	svc.StartBot(ctx)
	assert.Equal(t, domain.BotRunning, svc.BotStatus().State)
	require.NotNil(t, svc.BotStatus().StartedAt)

	svc.PauseBot(ctx)
	assert.Equal(t, domain.BotPaused, svc.BotStatus().State)

	svc.StopBot(ctx)
	status := svc.BotStatus()
	assert.Equal(t, domain.BotStopped, status.State)
	assert.Nil(t, status.StartedAt)

	assert.Len(t, dispatcher.byType(events.EventBotStatusChanged), 3)
}

func TestClosePositionNotFound(t *testing.T) {
	svc, _ := newTestTradingService()

	_, err := svc.ClosePosition(context.Background(), "EURUSD")
	assert.ErrorIs(t, err, ErrPositionNotFound)
}

func TestClosePositionPersistsTradeAndEmitsEvent(t *testing.T) {
	svc, dispatcher := newTestTradingService()
	ctx := context.Background()

	svc.openPosition("EURUSD", 1.1000)
	require.Len(t, svc.OpenPositions(), 1)

	trade, err := svc.ClosePosition(ctx, "EURUSD")
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", trade.Symbol)
	assert.Empty(t, svc.OpenPositions())

	history, err := svc.TradeHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, trade.ID, history[0].ID)

	closed := dispatcher.byType(events.EventTradeClosed)
	require.Len(t, closed, 1)
	payload, ok := closed[0].Payload.(events.TradeClosedPayload)
	require.True(t, ok)
	assert.Equal(t, trade.ID, payload.Trade.ID)
}

func TestTickEmitsPriceUpdates(t *testing.T) {
	svc, dispatcher := newTestTradingService()
	ctx := context.Background()

	svc.tick(ctx)
	svc.tick(ctx)

	updates := dispatcher.byType(events.EventPriceUpdate)
	require.Len(t, updates, 2)
	payload, ok := updates[0].Payload.(events.PriceUpdatePayload)
	require.True(t, ok)
	assert.Equal(t, "EURUSD", payload.Symbol)
	assert.Greater(t, payload.Ask, payload.Bid)
}

func TestRunningBotOpensPosition(t *testing.T) {
	svc, dispatcher := newTestTradingService()
	ctx := context.Background()

	svc.StartBot(ctx)
	svc.tick(ctx)

	require.Len(t, svc.OpenPositions(), 1)
	assert.Len(t, dispatcher.byType(events.EventTradeOpened), 1)

	// a second tick keeps the single open position on the symbol
	svc.tick(ctx)
	assert.LessOrEqual(t, len(svc.OpenPositions()), 1)
}

func seedTrades(t *testing.T, svc *TradingService, profits []float64) {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, profit := range profits {
		trade := &domain.Trade{
			Symbol:     "EURUSD",
			Direction:  domain.DirectionBuy,
			Volume:     0.1,
			OpenPrice:  1.1,
			ClosePrice: 1.1 + profit/10000,
			Profit:     profit,
			OpenedAt:   base.Add(time.Duration(i) * time.Hour),
			ClosedAt:   base.Add(time.Duration(i)*time.Hour + 30*time.Minute),
		}
		require.NoError(t, svc.trades.Insert(context.Background(), trade))
	}
}

func TestPerformanceStats(t *testing.T) {
	svc, _ := newTestTradingService()
	seedTrades(t, svc, []float64{50, -20, 30, -10})

	stats, err := svc.PerformanceStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalTrades)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 2, stats.Losses)
	assert.InDelta(t, 0.5, stats.WinRate, 1e-9)
	assert.InDelta(t, 80, stats.GrossProfit, 1e-9)
	assert.InDelta(t, 30, stats.GrossLoss, 1e-9)
	assert.InDelta(t, 50, stats.NetProfit, 1e-9)
	assert.InDelta(t, 80.0/30.0, stats.ProfitFactor, 1e-9)
}

func TestEquityCurveIsCumulative(t *testing.T) {
	svc, _ := newTestTradingService()
	seedTrades(t, svc, []float64{10, -5, 20})

	curve, err := svc.EquityCurve(context.Background())
	require.NoError(t, err)
	require.Len(t, curve, 3)
	assert.InDelta(t, 10, curve[0].Equity, 1e-9)
	assert.InDelta(t, 5, curve[1].Equity, 1e-9)
	assert.InDelta(t, 25, curve[2].Equity, 1e-9)
	assert.True(t, curve[0].Time.Before(curve[1].Time))
}

func TestDailySummaryGroupsByDay(t *testing.T) {
	svc, _ := newTestTradingService()
	seedTrades(t, svc, []float64{10, 20})

	summary, err := svc.DailySummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, "2026-08-01", summary[0].Date)
	assert.Equal(t, 2, summary[0].Trades)
	assert.InDelta(t, 30, summary[0].Profit, 1e-9)
}

func TestRecentTradesWindow(t *testing.T) {
	svc, _ := newTestTradingService()

	old := &domain.Trade{
		Symbol: "EURUSD", Direction: domain.DirectionBuy, Volume: 0.1,
		Profit: 5, OpenedAt: time.Now().AddDate(0, 0, -30), ClosedAt: time.Now().AddDate(0, 0, -30),
	}
	fresh := &domain.Trade{
		Symbol: "EURUSD", Direction: domain.DirectionSell, Volume: 0.1,
		Profit: -5, OpenedAt: time.Now().Add(-time.Hour), ClosedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, svc.trades.Insert(context.Background(), old))
	require.NoError(t, svc.trades.Insert(context.Background(), fresh))

	recent, err := svc.RecentTrades(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, fresh.ID, recent[0].ID)
}
