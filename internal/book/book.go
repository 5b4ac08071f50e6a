// Package book implements a single-instrument limit order book with
// price-time priority matching. The book is the aggregate root: it owns
// both sides, the resting-order index and the session trade log, and
// every read accessor returns owned copies rather than live handles.
package book

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Book is a price-time priority order book for one symbol. A single
// mutex serializes matching; the price-level pop/insert sequence is not
// atomic across steps, so writers must be exclusive. Reads snapshot
// under the same lock.
type Book struct {
	mu     sync.RWMutex
	symbol string
	bids   *bookSide
	asks   *bookSide

	// orders indexes resting orders by id. It holds the same *Order the
	// owning level links, never a duplicate copy.
	orders map[uint64]*Order

	trades      []Trade
	nextTradeID uint64
}

// New creates an empty order book for symbol.
func New(symbol string) *Book {
	return &Book{
		symbol:      symbol,
		bids:        newBookSide(true),
		asks:        newBookSide(false),
		orders:      make(map[uint64]*Order),
		nextTradeID: 1,
	}
}

// Symbol returns the instrument this book trades.
func (b *Book) Symbol() string {
	return b.symbol
}

// AddOrder validates o, matches it against the opposing side and rests
// any unfilled limit remainder. It returns the trades generated by this
// call in execution order. Validation failures leave the book untouched;
// once matching starts it runs to completion.
func (b *Book) AddOrder(o Order) ([]Trade, error) {
	if err := b.validate(&o); err != nil {
		return nil, err
	}
	if o.Type == Market {
		o.Price = decimal.Zero
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	trades := b.match(&o)

	// Leftover disposition: a limit remainder rests at its own price, a
	// market remainder is discarded (immediate-or-cancel).
	if o.Quantity > 0 && o.Type == Limit {
		b.rest(&o)
	}

	b.trades = append(b.trades, trades...)
	return trades, nil
}

func (b *Book) validate(o *Order) error {
	if o.Symbol != b.symbol {
		return fmt.Errorf("%w: order symbol %q, book symbol %q", ErrSymbolMismatch, o.Symbol, b.symbol)
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidOrder, o.Quantity)
	}
	if o.Type == Limit && !o.Price.IsPositive() {
		return fmt.Errorf("%w: limit price must be positive, got %s", ErrInvalidOrder, o.Price)
	}
	return nil
}

// match walks the opposing side from the best price inward while the
// taker still crosses, filling against the oldest order at each level.
func (b *Book) match(taker *Order) []Trade {
	var trades []Trade

	opposing := b.asks
	if taker.Side == Sell {
		opposing = b.bids
	}

	for taker.Quantity > 0 {
		best := opposing.best()
		if best == nil || !crosses(taker, best.price) {
			break
		}

		maker := best.front()
		fill := min64(taker.Quantity, maker.Quantity)

		trades = append(trades, b.execute(taker, maker, fill))

		taker.Quantity -= fill
		maker.Quantity -= fill
		best.reduce(fill)

		if maker.Quantity == 0 {
			best.unlink(maker)
			delete(b.orders, maker.ID)
		}
		opposing.removeIfEmpty(best)
	}
	return trades
}

// crosses reports whether the taker may trade at the opposing best
// price. Market orders cross any price.
func crosses(o *Order, best decimal.Decimal) bool {
	if o.Type == Market {
		return true
	}
	if o.Side == Buy {
		return o.Price.GreaterThanOrEqual(best)
	}
	return o.Price.LessThanOrEqual(best)
}

// execute records one match event. The maker sets the execution price.
func (b *Book) execute(taker, maker *Order, qty int64) Trade {
	t := Trade{
		ID:         b.nextTradeID,
		Symbol:     b.symbol,
		Price:      maker.Price,
		Quantity:   qty,
		ExecutedAt: laterOf(taker.Timestamp, maker.Timestamp),
	}
	b.nextTradeID++
	if taker.Side == Buy {
		t.BuyOrderID = taker.ID
		t.SellOrderID = maker.ID
	} else {
		t.BuyOrderID = maker.ID
		t.SellOrderID = taker.ID
	}
	return t
}

// rest inserts the remainder as a new resting order on its own side.
func (b *Book) rest(o *Order) {
	resting := o.clone()
	side := b.bids
	if resting.Side == Sell {
		side = b.asks
	}
	side.insert(&resting)
	b.orders[resting.ID] = &resting
}

// Bids returns up to depth (price, quantity) pairs from the bid side,
// highest price first. depth <= 0 returns the full ladder.
func (b *Book) Bids(depth int) []Level {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.depth(depth)
}

// Asks returns up to depth (price, quantity) pairs from the ask side,
// lowest price first. depth <= 0 returns the full ladder.
func (b *Book) Asks(depth int) []Level {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.depth(depth)
}

// Trades returns the session trade log in execution order.
func (b *Book) Trades() []Trade {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

// Order returns a copy of the resting order with the given id.
func (b *Book) Order(id uint64) (Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	if !ok {
		return Order{}, false
	}
	return o.clone(), true
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
