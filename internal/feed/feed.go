// Package feed generates synthetic order flow for demo and load
// purposes: a random walk of limit orders around a moving mid price,
// with the occasional market order sweeping the top of the book.
package feed

import (
	"context"
	"math/rand"
	"time"

	"matchbook/internal/book"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config controls order generation.
type Config struct {
	Interval      time.Duration // how often to generate a batch
	OrdersPerTick int           // orders per batch
	Seed          int64         // rng seed; 0 means time-based
	StartPrice    decimal.Decimal
	TickSize      decimal.Decimal
	SpreadTicks   int64 // limit prices land within +-SpreadTicks of mid
	MaxQty        int64
	MarketEvery   int // roughly one in MarketEvery orders is a market order
}

// DefaultConfig returns a modest load suitable for the demo server.
func DefaultConfig() Config {
	return Config{
		Interval:      250 * time.Millisecond,
		OrdersPerTick: 5,
		StartPrice:    decimal.NewFromInt(100),
		TickSize:      decimal.NewFromFloat(0.25),
		SpreadTicks:   20,
		MaxQty:        500,
		MarketEvery:   10,
	}
}

// Feeder drives a book with generated orders. OnTrades, when set, is
// called with the trades of each order that matched.
type Feeder struct {
	OnTrades func([]book.Trade)

	book     *book.Book
	log      *zap.Logger
	cfg      Config
	rng      *rand.Rand
	nextID   uint64
	midTicks int64
}

// New creates a feeder for b.
func New(b *book.Book, log *zap.Logger, cfg Config) *Feeder {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Feeder{
		book:     b,
		log:      log,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		nextID:   1,
		midTicks: cfg.StartPrice.Div(cfg.TickSize).IntPart(),
	}
}

// Run generates batches until ctx is cancelled.
func (f *Feeder) Run(ctx context.Context) {
	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()

	start := time.Now()
	total := 0
	f.log.Info("feed started",
		zap.Duration("interval", f.cfg.Interval),
		zap.Int("orders_per_tick", f.cfg.OrdersPerTick))

	for {
		select {
		case <-ctx.Done():
			elapsed := time.Since(start)
			f.log.Info("feed stopped",
				zap.Int("orders", total),
				zap.Duration("elapsed", elapsed.Round(time.Second)))
			return
		case <-ticker.C:
			total += f.step(time.Now())
		}
	}
}

// step places one batch of orders and returns how many were accepted.
func (f *Feeder) step(now time.Time) int {
	placed := 0
	for i := 0; i < f.cfg.OrdersPerTick; i++ {
		o := f.nextOrder(now)
		trades, err := f.book.AddOrder(o)
		if err != nil {
			f.log.Warn("generated order rejected", zap.Uint64("id", o.ID), zap.Error(err))
			continue
		}
		placed++
		if len(trades) > 0 {
			// Drift the mid toward the last execution.
			last := trades[len(trades)-1]
			f.midTicks = last.Price.Div(f.cfg.TickSize).IntPart()
			if f.OnTrades != nil {
				f.OnTrades(trades)
			}
		}
	}
	return placed
}

func (f *Feeder) nextOrder(now time.Time) book.Order {
	o := book.Order{
		ID:        f.nextID,
		Symbol:    f.book.Symbol(),
		Side:      book.Buy,
		Type:      book.Limit,
		Quantity:  1 + f.rng.Int63n(f.cfg.MaxQty),
		Timestamp: now,
	}
	f.nextID++

	if f.rng.Intn(2) == 1 {
		o.Side = book.Sell
	}
	if f.cfg.MarketEvery > 0 && f.rng.Intn(f.cfg.MarketEvery) == 0 {
		o.Type = book.Market
		return o
	}

	offset := f.rng.Int63n(2*f.cfg.SpreadTicks+1) - f.cfg.SpreadTicks
	ticks := f.midTicks + offset
	if ticks < 1 {
		ticks = 1
	}
	o.Price = f.cfg.TickSize.Mul(decimal.NewFromInt(ticks))
	return o
}
