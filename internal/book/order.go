package book

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// MarshalJSON renders the side as "buy" or "sell".
func (s Side) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// OrderType selects limit or market semantics. The two differ only in
// the crossing test and in what happens to an unfilled remainder.
type OrderType int

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Market {
		return "market"
	}
	return "limit"
}

// MarshalJSON renders the type as "limit" or "market".
func (t OrderType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

var (
	// ErrInvalidOrder rejects orders with non-positive quantity, or a
	// non-positive price on a limit order.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrSymbolMismatch rejects orders routed to the wrong book.
	ErrSymbolMismatch = errors.New("symbol mismatch")
)

// Order is a single buy or sell instruction. Quantity is the remaining
// unfilled amount and is decremented as fills occur; every other field
// is fixed at construction. Price is ignored for market orders.
// Timestamp is used only for time priority within a price level.
type Order struct {
	ID        uint64          `json:"id"`
	Symbol    string          `json:"symbol"`
	Side      Side            `json:"side"`
	Type      OrderType       `json:"type"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Timestamp time.Time       `json:"timestamp"`

	// Intrusive queue links, owned by the price level the order rests in.
	next *Order
	prev *Order
}

// clone returns a detached copy safe to hand outside the book.
func (o *Order) clone() Order {
	c := *o
	c.next = nil
	c.prev = nil
	return c
}

// Trade is an immutable record of one match event. Price is the resting
// order's price: the passive side sets the execution price.
type Trade struct {
	ID          uint64          `json:"id"`
	Symbol      string          `json:"symbol"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	BuyOrderID  uint64          `json:"buy_order_id"`
	SellOrderID uint64          `json:"sell_order_id"`
	ExecutedAt  time.Time       `json:"executed_at"`
}

// Level is one rung of a depth ladder: the aggregate resting quantity
// at a single price.
type Level struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}
