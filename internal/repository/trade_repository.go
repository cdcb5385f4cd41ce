package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eden-labs/trading-gateway/internal/domain"
)

// TradeRepository encapsulates closed-trade persistence.
type TradeRepository interface {
	Insert(ctx context.Context, trade *domain.Trade) error
	List(ctx context.Context, limit int) ([]domain.Trade, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.Trade, error)
}

type tradeRepository struct {
	pool *pgxpool.Pool
}

// NewTradeRepository returns a Postgres-backed implementation. A limit of
// zero on List means no limit.
func NewTradeRepository(pool *pgxpool.Pool) TradeRepository {
	return &tradeRepository{pool: pool}
}

func (r *tradeRepository) Insert(ctx context.Context, trade *domain.Trade) error {
	const query = `
        INSERT INTO trades (symbol, direction, volume, open_price, close_price, profit, opened_at, closed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		trade.Symbol,
		trade.Direction,
		trade.Volume,
		trade.OpenPrice,
		trade.ClosePrice,
		trade.Profit,
		trade.OpenedAt,
		trade.ClosedAt,
	).Scan(&trade.ID)
}

func (r *tradeRepository) List(ctx context.Context, limit int) ([]domain.Trade, error) {
	const query = `
        SELECT id, symbol, direction, volume, open_price, close_price, profit, opened_at, closed_at
        FROM trades ORDER BY closed_at DESC LIMIT NULLIF($1, 0)`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrades(rows)
}

func (r *tradeRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Trade, error) {
	const query = `
        SELECT id, symbol, direction, volume, open_price, close_price, profit, opened_at, closed_at
        FROM trades WHERE closed_at >= $1 ORDER BY closed_at DESC`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrades(rows)
}

func scanTrades(rows pgx.Rows) ([]domain.Trade, error) {
	trades := []domain.Trade{}
	for rows.Next() {
		var t domain.Trade
		if err := rows.Scan(
			&t.ID,
			&t.Symbol,
			&t.Direction,
			&t.Volume,
			&t.OpenPrice,
			&t.ClosePrice,
			&t.Profit,
			&t.OpenedAt,
			&t.ClosedAt,
		); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
