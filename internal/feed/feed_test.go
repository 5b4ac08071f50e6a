package feed

import (
	"testing"
	"time"

	"matchbook/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFeeder_Step(t *testing.T) {
	b := book.New("AAPL")
	cfg := DefaultConfig()
	cfg.Seed = 42

	var seen []book.Trade
	f := New(b, zap.NewNop(), cfg)
	f.OnTrades = func(trades []book.Trade) {
		seen = append(seen, trades...)
	}

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	placed := 0
	for i := 0; i < 200; i++ {
		placed += f.step(now.Add(time.Duration(i) * time.Second))
	}

	// Every generated order is valid by construction.
	assert.Equal(t, 200*cfg.OrdersPerTick, placed)

	// Sustained two-sided flow builds a book and prints trades.
	assert.NotEmpty(t, b.Bids(0))
	assert.NotEmpty(t, b.Asks(0))
	require.NotEmpty(t, seen)

	for _, tr := range seen {
		assert.Positive(t, tr.Quantity)
		assert.True(t, tr.Price.IsPositive())
		assert.Equal(t, "AAPL", tr.Symbol)
	}

	// The callback saw exactly the session trade log.
	assert.Equal(t, b.Trades(), seen)
}

func TestFeeder_Deterministic(t *testing.T) {
	run := func() []book.Level {
		b := book.New("AAPL")
		cfg := DefaultConfig()
		cfg.Seed = 7
		f := New(b, zap.NewNop(), cfg)
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		for i := 0; i < 50; i++ {
			f.step(now)
		}
		return b.Bids(0)
	}

	assert.Equal(t, run(), run())
}
