// Package db journals executed trades to PostgreSQL. The book itself is
// never persisted or restored; the journal is a downstream record of
// what the engine reported.
package db

import (
	"context"
	"fmt"

	"matchbook/internal/book"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New initializes a new database connection pool and verifies it.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// InsertTrades appends a batch of executed trades to the journal.
func (db *DB) InsertTrades(ctx context.Context, trades []book.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range trades {
		batch.Queue(
			"INSERT INTO trades (trade_id, symbol, price, quantity, buy_order_id, sell_order_id, executed_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			t.ID, t.Symbol, t.Price, t.Quantity, t.BuyOrderID, t.SellOrderID, t.ExecutedAt,
		)
	}

	results := db.Pool.SendBatch(ctx, batch)
	defer results.Close()
	for range trades {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}
	return nil
}

// RecentTrades returns up to limit journaled trades in execution order.
func (db *DB) RecentTrades(ctx context.Context, limit int) ([]book.Trade, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT trade_id, symbol, price, quantity, buy_order_id, sell_order_id, executed_at
		FROM (
			SELECT trade_id, symbol, price, quantity, buy_order_id, sell_order_id, executed_at
			FROM trades
			ORDER BY trade_id DESC
			LIMIT $1
		) t
		ORDER BY trade_id ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []book.Trade
	for rows.Next() {
		var t book.Trade
		if err := rows.Scan(&t.ID, &t.Symbol, &t.Price, &t.Quantity, &t.BuyOrderID, &t.SellOrderID, &t.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trades, nil
}
