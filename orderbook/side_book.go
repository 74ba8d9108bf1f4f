package orderbook

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"clobengine/domain"
)

// sideBook is the "Tree" of §4.3: an ordered price->priceLevel map plus
// an id->order index, realized as an arena of order slots so removal
// and tail-append are O(1) without a pointer-linked list's cyclic
// ownership (§9). The price tree's comparator is chosen per side so
// that tree.Left() is always the best price: descending for bids,
// ascending for asks, mirroring the teacher's per-side bucket
// comparator in price_tree_sharded.go.
type sideBook struct {
	side      domain.Side
	tree      *rbt.Tree[domain.Decimal, *priceLevel]
	orderIdx  map[uint64]int32 // order id -> arena slot index
	arena     []slot
	free      []int32 // recycled slot indices
	volume    domain.Decimal
	numOrders int
}

func newSideBook(side domain.Side) *sideBook {
	var cmp func(a, b domain.Decimal) int
	if side == domain.SideBid {
		cmp = func(a, b domain.Decimal) int { return b.Cmp(a) } // descending
	} else {
		cmp = func(a, b domain.Decimal) int { return a.Cmp(b) } // ascending
	}
	return &sideBook{
		side:     side,
		tree:     rbt.NewWith[domain.Decimal, *priceLevel](cmp),
		orderIdx: make(map[uint64]int32),
		volume:   domain.Zero,
	}
}

// allocSlot returns a free arena index holding order o, growing the
// arena if no recycled slot is available.
func (sb *sideBook) allocSlot(o Order) int32 {
	if n := len(sb.free); n > 0 {
		idx := sb.free[n-1]
		sb.free = sb.free[:n-1]
		sb.arena[idx] = slot{order: o, prev: noIdx, next: noIdx, inUse: true}
		return idx
	}
	sb.arena = append(sb.arena, slot{order: o, prev: noIdx, next: noIdx, inUse: true})
	return int32(len(sb.arena) - 1)
}

func (sb *sideBook) freeSlot(idx int32) {
	sb.arena[idx] = slot{prev: noIdx, next: noIdx}
	sb.free = append(sb.free, idx)
}

// levelAt returns the price level at price, creating it if absent.
func (sb *sideBook) levelAt(price domain.Decimal) *priceLevel {
	if lvl, ok := sb.tree.Get(price); ok {
		return lvl
	}
	lvl := newPriceLevel(price)
	sb.tree.Put(price, lvl)
	return lvl
}

// insertOrder appends o to its price level, creating the level if this
// is the first order at that price. Returns the order's final arena
// slot index (stable until the order is removed).
func (sb *sideBook) insertOrder(o Order) int32 {
	lvl := sb.levelAt(o.Price)
	idx := sb.allocSlot(o)
	lvl.appendOrder(sb.arena, idx)
	sb.orderIdx[o.OrderID] = idx
	sb.volume = sb.volume.Add(o.Quantity)
	sb.numOrders++
	return idx
}

// removeOrderByID removes the order with the given id, returning a
// snapshot of it taken before unlinking (so callers can report on the
// just-removed order without a use-after-free hazard — §9's "cancel
// returns a view of the order it just removed" note). ok is false if
// the id is absent, in which case the book is left untouched.
func (sb *sideBook) removeOrderByID(id uint64) (Order, bool) {
	idx, ok := sb.orderIdx[id]
	if !ok {
		return Order{}, false
	}
	o := sb.arena[idx].order

	lvl, ok := sb.tree.Get(o.Price)
	if !ok {
		panic(ErrIntegrityViolation)
	}
	lvl.removeOrder(sb.arena, idx)
	if lvl.isEmpty() {
		sb.tree.Remove(o.Price)
	}

	delete(sb.orderIdx, id)
	sb.freeSlot(idx)
	sb.volume = sb.volume.Sub(o.Quantity)
	sb.numOrders--

	return o, true
}

// fillHead reduces the head order of lvl by qty (qty must be <= the
// head's remaining quantity) and returns the updated head order. If the
// fill exhausts the head order it is removed from the book entirely.
func (sb *sideBook) fillHead(lvl *priceLevel, qty domain.Decimal) (filled Order, removed bool) {
	idx := lvl.headIdx
	s := &sb.arena[idx]
	filled = s.order

	if qty.Equal(s.order.Quantity) {
		o, _ := sb.removeOrderByID(s.order.OrderID)
		o.Quantity = domain.Zero
		return o, true
	}

	s.order.Quantity = s.order.Quantity.Sub(qty)
	lvl.volume = lvl.volume.Sub(qty)
	sb.volume = sb.volume.Sub(qty)
	return s.order, false
}

// updateOrderQuantity changes the quantity of a resting order in place
// (§4.3 update_order). A decrease keeps the order at its current
// position, preserving time priority. An increase forfeits time
// priority: the order is moved to the tail of its price level via
// moveToTail, the same as if it had been cancelled and resubmitted,
// because the newly-added quantity was not actually waiting in line.
// ok is false if the id is absent.
func (sb *sideBook) updateOrderQuantity(id uint64, newQty domain.Decimal) (Order, bool) {
	idx, ok := sb.orderIdx[id]
	if !ok {
		return Order{}, false
	}
	s := &sb.arena[idx]

	lvl, ok := sb.tree.Get(s.order.Price)
	if !ok {
		panic(ErrIntegrityViolation)
	}

	delta := newQty.Sub(s.order.Quantity)
	increased := newQty.GreaterThan(s.order.Quantity)

	s.order.Quantity = newQty
	lvl.volume = lvl.volume.Add(delta)
	sb.volume = sb.volume.Add(delta)

	if increased {
		lvl.moveToTail(sb.arena, idx)
	}

	return s.order, true
}

// bestLevel returns the best (highest bid / lowest ask) price level, or
// nil if the side is empty.
func (sb *sideBook) bestLevel() *priceLevel {
	node := sb.tree.Left()
	if node == nil {
		return nil
	}
	return node.Value
}

// levelAtPrice returns the level resting at price, if any.
func (sb *sideBook) levelAtPrice(price domain.Decimal) (*priceLevel, bool) {
	return sb.tree.Get(price)
}

// volumeAtPrice returns the aggregate resting quantity at price, or
// zero if no orders rest there.
func (sb *sideBook) volumeAtPrice(price domain.Decimal) domain.Decimal {
	if lvl, ok := sb.tree.Get(price); ok {
		return lvl.volume
	}
	return domain.Zero
}

// depth returns the number of distinct resting prices.
func (sb *sideBook) depth() int {
	return sb.tree.Size()
}

// isEmpty reports whether the side has no resting orders.
func (sb *sideBook) isEmpty() bool {
	return sb.tree.Empty()
}

// orderedLevels returns every resting price level, best price first,
// using the tree's comparator (descending for bids, ascending for
// asks) — so "best first" falls out of Values() with no extra
// reversal.
func (sb *sideBook) orderedLevels() []*priceLevel {
	return sb.tree.Values()
}

// orderByID returns a snapshot of the resting order with the given id,
// without removing it.
func (sb *sideBook) orderByID(id uint64) (Order, bool) {
	idx, ok := sb.orderIdx[id]
	if !ok {
		return Order{}, false
	}
	return sb.arena[idx].order, true
}
