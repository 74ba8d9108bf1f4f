package orderbook

import (
	"strings"
	"sync"

	"clobengine/domain"
)

// SubmitRequest is the validated-before-entry shape of an incoming
// order (§4.4.1). OrderID and TimestampMS are assigned by the book, not
// supplied by the caller.
type SubmitRequest struct {
	Type       domain.OrderType
	Account    string
	TradeID    string
	Side       domain.Side
	Price      domain.Decimal
	Quantity   domain.Decimal
	BaseAsset  string
	QuoteAsset string
	PrivateKey string
}

// ProcessResult is the pipeline's success output (§7): either the
// incoming order rests (RestingOrder set) or it was fully consumed
// (RestingOrder nil), plus the trades produced and the outcome's task
// code. NextBest is only populated for TaskCrossAdvanced.
type ProcessResult struct {
	Trades       []domain.Trade
	RestingOrder *domain.Order
	TaskID       domain.TaskCode
	NextBest     *domain.Order
}

// LevelView is one (price, aggregate quantity) row of a book snapshot.
type LevelView struct {
	Price    domain.Decimal
	Quantity domain.Decimal
}

// Snapshot is the §4.4.5 orderbook() output: bids descending, asks
// ascending.
type Snapshot struct {
	Symbol string
	Bids   []LevelView
	Asks   []LevelView
}

// OrderBook hosts one symbol's two SideBooks plus the monotonic id
// counter and logical clock (§3). All exported methods serialize on mu:
// the published ordering guarantee (price-time priority) is defined
// against that serial schedule (§5), realized here as mutual exclusion
// rather than a dedicated goroutine, since a mutex is the idiomatic Go
// expression of "one logical thread of execution per resource."
type OrderBook struct {
	Symbol     string
	BaseAsset  string
	QuoteAsset string

	mu   sync.Mutex
	bids *sideBook
	asks *sideBook

	nextOrderID uint64
	tick        uint64
	tape        []domain.Trade
}

// NewOrderBook creates an empty order book for the (baseAsset,
// quoteAsset) pair, labelled symbol for display (§6's "symbol"
// field; Registry passes "BASE/QUOTE" in upper case).
func NewOrderBook(symbol, baseAsset, quoteAsset string) *OrderBook {
	return &OrderBook{
		Symbol:      symbol,
		BaseAsset:   baseAsset,
		QuoteAsset:  quoteAsset,
		bids:        newSideBook(domain.SideBid),
		asks:        newSideBook(domain.SideAsk),
		nextOrderID: 1,
	}
}

func validate(req SubmitRequest) error {
	if req.Type != domain.OrderTypeLimit {
		return ErrUnsupportedOrderType
	}
	if req.Side != domain.SideBid && req.Side != domain.SideAsk {
		return ErrInvalidSide
	}
	if !req.Quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if !req.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

func crosses(side domain.Side, price, oppBest domain.Decimal) bool {
	if side == domain.SideBid {
		return price.GreaterThanOrEqual(oppBest)
	}
	return price.LessThanOrEqual(oppBest)
}

func sideBooksFor(ob *OrderBook, side domain.Side) (own, opp *sideBook) {
	if side == domain.SideBid {
		return ob.bids, ob.asks
	}
	return ob.asks, ob.bids
}

// ProcessOrder runs the full pipeline of §4.4: validate, advance the
// clock, match against the opposite side, place any residual, and
// classify the outcome. nowMS is the caller-supplied wall clock
// (milliseconds since epoch) stamped onto the order and every trade it
// produces; threading it through as a parameter (rather than calling
// time.Now() deep in the pipeline) keeps ProcessOrder deterministic and
// easy to test.
func (ob *OrderBook) ProcessOrder(req SubmitRequest, nowMS int64) (ProcessResult, error) {
	if err := validate(req); err != nil {
		return ProcessResult{}, err
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.tick++
	orderID := ob.nextOrderID
	ob.nextOrderID++

	incoming := domain.Order{
		OrderID:     orderID,
		Account:     req.Account,
		TradeID:     req.TradeID,
		Side:        req.Side,
		Price:       req.Price,
		Quantity:    req.Quantity,
		BaseAsset:   req.BaseAsset,
		QuoteAsset:  req.QuoteAsset,
		TimestampMS: nowMS,
		PrivateKey:  req.PrivateKey,
	}

	own, opp := sideBooksFor(ob, req.Side)

	var startBestPrice domain.Decimal
	hadOppLevel := false
	if lvl := opp.bestLevel(); lvl != nil {
		startBestPrice = lvl.price
		hadOppLevel = true
	}

	var trades []domain.Trade
	residual := incoming.Quantity

	for residual.IsPositive() && !opp.isEmpty() {
		lvl := opp.bestLevel()
		if !crosses(req.Side, req.Price, lvl.price) {
			break
		}

		for residual.IsPositive() && lvl.length > 0 {
			headIdx := lvl.headIdx
			head := opp.arena[headIdx].order // maker snapshot, taken before mutation

			tradedQty := domain.Min(residual, head.Quantity)
			tradedPrice := head.Price
			remainingQty := head.Quantity.Sub(tradedQty)

			opp.fillHead(lvl, tradedQty)

			trade := domain.Trade{
				TimestampMS: nowMS,
				Price:       tradedPrice,
				Quantity:    tradedQty,
				Tick:        ob.tick,
				Party1: domain.TradeParty{
					Account:      head.Account,
					Side:         head.Side,
					OrderID:      uint64Ptr(head.OrderID),
					RemainingQty: decimalPtr(remainingQty),
					Credential:   head.PrivateKey,
				},
				Party2: domain.TradeParty{
					Account:    incoming.Account,
					Side:       incoming.Side,
					Credential: incoming.PrivateKey,
				},
			}
			trades = append(trades, trade)
			ob.tape = append(ob.tape, trade)
			residual = residual.Sub(tradedQty)
		}
	}

	result := ProcessResult{Trades: trades}

	if residual.IsZero() {
		bestLvl := opp.bestLevel()
		if bestLvl != nil && hadOppLevel && bestLvl.price.Equal(startBestPrice) {
			result.TaskID = domain.TaskCrossPartial
			return result, nil
		}
		result.TaskID = domain.TaskCrossAdvanced
		if bestLvl != nil {
			nb := opp.arena[bestLvl.headIdx].order
			result.NextBest = &nb
		}
		return result, nil
	}

	// Residual remains: it rests on its own side, whether or not any
	// trades were produced first (§10 resolution #5 in SPEC_FULL.md).
	incoming.Quantity = residual
	idx := own.insertOrder(incoming)
	inserted := own.arena[idx].order
	result.RestingOrder = &inserted

	if own.bestLevel().price.Equal(incoming.Price) {
		result.TaskID = domain.TaskNoCrossBest
	} else {
		result.TaskID = domain.TaskNoCrossNotBest
	}
	return result, nil
}

// CancelOrder removes the order with the given id from side, returning
// a snapshot of it as it stood immediately before removal. ok is false
// if the id is absent, in which case the book is left untouched.
func (ob *OrderBook) CancelOrder(side domain.Side, orderID uint64) (domain.Order, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	sb := ob.bids
	if side == domain.SideAsk {
		sb = ob.asks
	}
	return sb.removeOrderByID(orderID)
}

// GetOrder returns a snapshot of the resting order with the given id,
// without removing it. A caller who only has an orderId doesn't know
// which side it rests on (§6's get_order takes no side), so both of
// the book's SideBooks are checked, bids first then asks — matching
// the original's /api/order handler, which falls back from
// bids.order_map to asks.order_map for exactly this reason.
func (ob *OrderBook) GetOrder(orderID uint64) (domain.Order, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if o, ok := ob.bids.orderByID(orderID); ok {
		return o, true
	}
	return ob.asks.orderByID(orderID)
}

// BestBid returns the head order at the best bid price, or ok=false if
// there are no resting bids.
func (ob *OrderBook) BestBid() (domain.Order, bool) {
	return ob.bestOn(ob.bids)
}

// BestAsk returns the head order at the best ask price, or ok=false if
// there are no resting asks.
func (ob *OrderBook) BestAsk() (domain.Order, bool) {
	return ob.bestOn(ob.asks)
}

func (ob *OrderBook) bestOn(sb *sideBook) (domain.Order, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	lvl := sb.bestLevel()
	if lvl == nil {
		return domain.Order{}, false
	}
	return sb.arena[lvl.headIdx].order, true
}

// CurrentBestOrderAtPrice returns the head order of the price level at
// price on side — §4.3's price_list(price): "returns the PriceLevel;
// the head order of that level is the single 'current best order'
// reported on queries." ok is false if no order rests at that exact
// price.
func (ob *OrderBook) CurrentBestOrderAtPrice(side domain.Side, price domain.Decimal) (domain.Order, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	sb := ob.bids
	if side == domain.SideAsk {
		sb = ob.asks
	}
	lvl, ok := sb.levelAtPrice(price)
	if !ok || lvl.isEmpty() {
		return domain.Order{}, false
	}
	return sb.arena[lvl.headIdx].order, true
}

// OrdersAtPrice returns every order resting at price on side, head to
// tail (§4.2: "iteration from head yields FIFO order"). Used to observe
// time-priority effects directly, e.g. confirming ModifyOrderQuantity
// moved an order to the back of its level.
func (ob *OrderBook) OrdersAtPrice(side domain.Side, price domain.Decimal) []domain.Order {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	sb := ob.bids
	if side == domain.SideAsk {
		sb = ob.asks
	}
	lvl, ok := sb.levelAtPrice(price)
	if !ok {
		return nil
	}
	return lvl.orders(sb.arena)
}

// ModifyOrderQuantity updates a resting order's quantity in place
// (§4.3 update_order). Decreasing the quantity leaves the order at its
// current position; increasing it forfeits time priority and moves the
// order to the tail of its price level (§4.2 move_to_tail). Returns the
// updated order snapshot, or ok=false if the id is absent on side.
func (ob *OrderBook) ModifyOrderQuantity(side domain.Side, orderID uint64, newQuantity domain.Decimal) (domain.Order, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	sb := ob.bids
	if side == domain.SideAsk {
		sb = ob.asks
	}
	return sb.updateOrderQuantity(orderID, newQuantity)
}

// VolumeAtPrice returns the resting quantity at price on side.
func (ob *OrderBook) VolumeAtPrice(side domain.Side, price domain.Decimal) domain.Decimal {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if side == domain.SideBid {
		return ob.bids.volumeAtPrice(price)
	}
	return ob.asks.volumeAtPrice(price)
}

// Snapshot returns the current book depth, bids descending, asks
// ascending (§4.4.5).
func (ob *OrderBook) Snapshot() Snapshot {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return Snapshot{
		Symbol: ob.Symbol,
		Bids:   levelViews(ob.bids),
		Asks:   levelViews(ob.asks),
	}
}

func levelViews(sb *sideBook) []LevelView {
	levels := sb.orderedLevels()
	out := make([]LevelView, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, LevelView{Price: lvl.price, Quantity: lvl.volume})
	}
	return out
}

// ForEachAccountOrder calls fn for every resting order on side owned by
// account (case-insensitive), used by the locked-funds aggregator.
func (ob *OrderBook) ForEachAccountOrder(side domain.Side, account string, fn func(domain.Order)) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	sb := ob.bids
	if side == domain.SideAsk {
		sb = ob.asks
	}
	for _, s := range sb.arena {
		if !s.inUse {
			continue
		}
		if strings.EqualFold(s.order.Account, account) {
			fn(s.order)
		}
	}
}

func uint64Ptr(v uint64) *uint64 { return &v }

func decimalPtr(v domain.Decimal) *domain.Decimal { return &v }
