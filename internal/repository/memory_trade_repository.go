package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eden-labs/trading-gateway/internal/domain"
)

// memoryTradeRepository keeps closed trades in process when no database is
// configured.
type memoryTradeRepository struct {
	mu     sync.RWMutex
	trades []domain.Trade
}

// NewMemoryTradeRepository builds an empty in-memory trade store.
func NewMemoryTradeRepository() TradeRepository {
	return &memoryTradeRepository{}
}

func (r *memoryTradeRepository) Insert(_ context.Context, trade *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	r.trades = append(r.trades, *trade)
	return nil
}

func (r *memoryTradeRepository) List(_ context.Context, limit int) ([]domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]domain.Trade{}, r.trades...)
	sort.Slice(out, func(i, j int) bool { return out[i].ClosedAt.After(out[j].ClosedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryTradeRepository) ListSince(_ context.Context, since time.Time) ([]domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Trade{}
	for _, t := range r.trades {
		if !t.ClosedAt.Before(since) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClosedAt.After(out[j].ClosedAt) })
	return out, nil
}
