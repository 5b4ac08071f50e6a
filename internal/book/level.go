package book

import "github.com/shopspring/decimal"

// priceLevel is the FIFO queue of resting orders at one exact price.
// Orders are linked in arrival order; the head is always the oldest, so
// time priority within a price falls out of the queue discipline. The
// aggregate quantity is maintained incrementally.
type priceLevel struct {
	price    decimal.Decimal
	head     *Order
	tail     *Order
	totalQty int64
	count    int
}

// enqueue appends o at the tail, preserving time priority.
func (l *priceLevel) enqueue(o *Order) {
	if l.head == nil {
		l.head = o
		l.tail = o
	} else {
		l.tail.next = o
		o.prev = l.tail
		l.tail = o
	}
	l.totalQty += o.Quantity
	l.count++
}

// front returns the oldest resting order without removing it, or nil.
func (l *priceLevel) front() *Order {
	return l.head
}

// unlink removes o from the queue. The aggregate is reduced by the
// order's remaining quantity, so unlinking a fully filled order is a
// no-op on totalQty.
func (l *priceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	l.totalQty -= o.Quantity
	l.count--
}

// reduce subtracts a fill from the aggregate without touching the queue.
func (l *priceLevel) reduce(qty int64) {
	l.totalQty -= qty
}

func (l *priceLevel) empty() bool {
	return l.head == nil
}
