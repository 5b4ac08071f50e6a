package book

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restingOrder(id uint64, qty int64) *Order {
	return &Order{
		ID:        id,
		Symbol:    "AAPL",
		Side:      Sell,
		Type:      Limit,
		Price:     decimal.NewFromInt(100),
		Quantity:  qty,
		Timestamp: time.Unix(int64(id), 0),
	}
}

func TestPriceLevel_FIFO(t *testing.T) {
	lvl := &priceLevel{price: decimal.NewFromInt(100)}

	lvl.enqueue(restingOrder(1, 10))
	lvl.enqueue(restingOrder(2, 20))
	lvl.enqueue(restingOrder(3, 30))

	assert.Equal(t, int64(60), lvl.totalQty)
	assert.Equal(t, 3, lvl.count)

	// Strict arrival order, regardless of size.
	front := lvl.front()
	require.NotNil(t, front)
	assert.Equal(t, uint64(1), front.ID)

	lvl.unlink(front)
	assert.Equal(t, uint64(2), lvl.front().ID)
	assert.Equal(t, int64(50), lvl.totalQty)
}

func TestPriceLevel_UnlinkMiddleAndTail(t *testing.T) {
	lvl := &priceLevel{price: decimal.NewFromInt(100)}

	a := restingOrder(1, 10)
	b := restingOrder(2, 20)
	c := restingOrder(3, 30)
	lvl.enqueue(a)
	lvl.enqueue(b)
	lvl.enqueue(c)

	lvl.unlink(b)
	assert.Equal(t, int64(40), lvl.totalQty)
	assert.Equal(t, uint64(1), lvl.front().ID)
	assert.Equal(t, uint64(3), lvl.front().next.ID)

	lvl.unlink(c)
	assert.Equal(t, uint64(1), lvl.tail.ID)

	lvl.unlink(a)
	assert.True(t, lvl.empty())
	assert.Equal(t, int64(0), lvl.totalQty)
	assert.Equal(t, 0, lvl.count)
}

func TestPriceLevel_ReduceTracksFills(t *testing.T) {
	lvl := &priceLevel{price: decimal.NewFromInt(100)}

	o := restingOrder(1, 100)
	lvl.enqueue(o)

	// A partial fill reduces the aggregate; unlinking the drained order
	// afterwards must not double-count.
	o.Quantity -= 40
	lvl.reduce(40)
	assert.Equal(t, int64(60), lvl.totalQty)

	o.Quantity -= 60
	lvl.reduce(60)
	lvl.unlink(o)
	assert.Equal(t, int64(0), lvl.totalQty)
	assert.True(t, lvl.empty())
}
