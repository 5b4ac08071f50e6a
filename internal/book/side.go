package book

// bookSide holds one side's price levels. Bids serve best-first as the
// highest price, asks as the lowest; no two levels share a price and an
// empty level is removed as soon as its last order leaves.
type bookSide struct {
	levels *levelTree
	bid    bool
}

func newBookSide(bid bool) *bookSide {
	return &bookSide{levels: newLevelTree(), bid: bid}
}

// best returns the most aggressive level, or nil when the side is empty.
func (s *bookSide) best() *priceLevel {
	if s.bid {
		return s.levels.max()
	}
	return s.levels.min()
}

// insert enqueues o at its price, creating the level if absent.
func (s *bookSide) insert(o *Order) *priceLevel {
	lvl := s.levels.upsert(o.Price)
	lvl.enqueue(o)
	return lvl
}

// removeIfEmpty drops lvl from the side once its queue has drained.
func (s *bookSide) removeIfEmpty(lvl *priceLevel) {
	if lvl.empty() {
		s.levels.remove(lvl.price)
	}
}

// depth returns up to n (price, aggregate quantity) pairs outward from
// the best price, most aggressive first. n <= 0 means the full ladder.
func (s *bookSide) depth(n int) []Level {
	if n <= 0 {
		n = s.levels.len()
	}
	out := make([]Level, 0, n)
	visit := func(lvl *priceLevel) bool {
		out = append(out, Level{Price: lvl.price, Quantity: lvl.totalQty})
		return len(out) < n
	}
	if s.bid {
		s.levels.descend(visit)
	} else {
		s.levels.ascend(visit)
	}
	return out
}
