package orderbook

import "clobengine/domain"

// noIdx is the sentinel "no slot" arena index. Arena slots are
// identified by index rather than by pointer (§9's redesign note: an
// arena allocator per book holding order slots, with a price level
// storing head/tail indices and each order storing prev/next indices,
// avoids the cyclic ownership a pointer-linked list mixes).
const noIdx = int32(-1)

// slot is one arena-resident order plus its intra-level list links.
type slot struct {
	order Order
	prev  int32
	next  int32
	inUse bool
}

// Order is an alias for the external order record. List linkage (prev,
// next) lives on the arena slot wrapping it, not on the order itself, so
// an Order value can be copied out for a snapshot or a trade report
// without dragging any pointer plumbing along.
type Order = domain.Order

// priceLevel holds every resting order at one exact price, FIFO: new
// orders append at the tail, fills drain from the head.
type priceLevel struct {
	price   domain.Decimal
	headIdx int32
	tailIdx int32
	length  int
	volume  domain.Decimal
}

func newPriceLevel(price domain.Decimal) *priceLevel {
	return &priceLevel{
		price:   price,
		headIdx: noIdx,
		tailIdx: noIdx,
		volume:  domain.Zero,
	}
}

// appendOrder links slot idx at the tail of the level.
func (pl *priceLevel) appendOrder(arena []slot, idx int32) {
	s := &arena[idx]
	s.prev = pl.tailIdx
	s.next = noIdx
	if pl.tailIdx != noIdx {
		arena[pl.tailIdx].next = idx
	} else {
		pl.headIdx = idx
	}
	pl.tailIdx = idx
	pl.length++
	pl.volume = pl.volume.Add(s.order.Quantity)
}

// removeOrder unlinks slot idx from the level, wherever it sits.
func (pl *priceLevel) removeOrder(arena []slot, idx int32) {
	s := &arena[idx]
	pl.volume = pl.volume.Sub(s.order.Quantity)
	pl.length--

	if s.prev != noIdx {
		arena[s.prev].next = s.next
	} else {
		pl.headIdx = s.next
	}
	if s.next != noIdx {
		arena[s.next].prev = s.prev
	} else {
		pl.tailIdx = s.prev
	}
	s.prev = noIdx
	s.next = noIdx
}

// moveToTail detaches slot idx and re-appends it at the tail without
// touching volume/length. Used when a resting order's quantity is
// increased in place (not exercised by the limit-order pipeline today,
// kept for update_order per §4.3).
func (pl *priceLevel) moveToTail(arena []slot, idx int32) {
	s := &arena[idx]
	if pl.tailIdx == idx {
		return
	}
	if s.prev != noIdx {
		arena[s.prev].next = s.next
	} else {
		pl.headIdx = s.next
	}
	if s.next != noIdx {
		arena[s.next].prev = s.prev
	}
	s.prev = pl.tailIdx
	s.next = noIdx
	arena[pl.tailIdx].next = idx
	pl.tailIdx = idx
}

// isEmpty reports whether the level has any resting orders left.
func (pl *priceLevel) isEmpty() bool {
	return pl.length == 0
}

// orders returns the level's resting orders head-to-tail (FIFO order).
// Used by OrderBook.OrdersAtPrice; not on the matching hot path.
func (pl *priceLevel) orders(arena []slot) []Order {
	out := make([]Order, 0, pl.length)
	for idx := pl.headIdx; idx != noIdx; idx = arena[idx].next {
		out = append(out, arena[idx].order)
	}
	return out
}
