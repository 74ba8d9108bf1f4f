// Package matching is the external entry point (§6): a process-wide
// Registry of order books keyed by symbol, dispatching each external
// operation to the right book. The registry itself is lock-light by
// design; the per-book mutex in orderbook.OrderBook is where the real
// serialization happens.
package matching

import (
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"clobengine/domain"
	"clobengine/orderbook"
)

// Registry is the process-wide symbol->OrderBook directory. Lookups
// read an atomically-published immutable map (the common case, no
// lock); creating a book for a never-seen symbol takes the slow path
// under mu, double-checking the map before publishing a new one. This
// mirrors the teacher's ExchangeEngine.GetEngine pattern: copy-on-write
// readers, serialized writers, exactly matching §5's requirement that
// concurrent requests for different symbols never block each other.
type Registry struct {
	books atomic.Value // map[string]*orderbook.OrderBook
	mu    sync.Mutex

	requestIDs *IDGenerator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{requestIDs: NewIDGenerator("req")}
	r.books.Store(make(map[string]*orderbook.OrderBook))
	return r
}

func symbolKey(baseAsset, quoteAsset string) string {
	return strings.ToUpper(baseAsset) + "/" + strings.ToUpper(quoteAsset)
}

// bookFor returns the order book for (baseAsset, quoteAsset), creating
// it if this is the first time the symbol has been seen. Per §9's
// resolved auto-creation scope, this path is only reached from
// SubmitOrder, GetOrderBook and GetBestOrder, never from GetOrder or locked-funds
// lookups, so a never-traded symbol does not spuriously appear from a
// read-only query.
func (r *Registry) bookFor(baseAsset, quoteAsset string) *orderbook.OrderBook {
	key := symbolKey(baseAsset, quoteAsset)

	books := r.books.Load().(map[string]*orderbook.OrderBook)
	if ob, ok := books[key]; ok {
		return ob
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	books = r.books.Load().(map[string]*orderbook.OrderBook)
	if ob, ok := books[key]; ok {
		return ob
	}

	next := make(map[string]*orderbook.OrderBook, len(books)+1)
	for k, v := range books {
		next[k] = v
	}
	ob := orderbook.NewOrderBook(key, baseAsset, quoteAsset)
	next[key] = ob
	r.books.Store(next)
	return ob
}

// lookupBook returns the order book for the symbol if it already
// exists, without creating one.
func (r *Registry) lookupBook(baseAsset, quoteAsset string) (*orderbook.OrderBook, bool) {
	key := symbolKey(baseAsset, quoteAsset)
	books := r.books.Load().(map[string]*orderbook.OrderBook)
	ob, ok := books[key]
	return ob, ok
}

// allBooks returns a stable snapshot of every currently registered book.
func (r *Registry) allBooks() []*orderbook.OrderBook {
	books := r.books.Load().(map[string]*orderbook.OrderBook)
	out := make([]*orderbook.OrderBook, 0, len(books))
	for _, ob := range books {
		out = append(out, ob)
	}
	return out
}

// SubmitOrder validates, matches, and (if residual remains) rests an
// order, auto-creating the symbol's book on first use. The returned
// view includes every trade the submission produced.
func (r *Registry) SubmitOrder(req orderbook.SubmitRequest) (domain.OrderView, error) {
	reqID := r.requestIDs.Next()

	ob := r.bookFor(req.BaseAsset, req.QuoteAsset)
	result, err := ob.ProcessOrder(req, time.Now().UnixMilli())
	if err != nil {
		log.Printf("matching: reject request=%s symbol=%s/%s: %v", reqID, req.BaseAsset, req.QuoteAsset, err)
		return domain.OrderView{}, err
	}

	views := make([]domain.TradeView, 0, len(result.Trades))
	for _, t := range result.Trades {
		views = append(views, domain.ViewOfTrade(t))
	}

	log.Printf("matching: request=%s symbol=%s/%s task=%d trades=%d", reqID, req.BaseAsset, req.QuoteAsset, result.TaskID, len(result.Trades))

	if result.RestingOrder == nil {
		// Fully consumed: report a sentinel with no resting identity but
		// the trades it participated in.
		view := domain.NoOrderView(req.Side, req.BaseAsset, req.QuoteAsset)
		view.Account = req.Account
		view.TradeID = req.TradeID
		view.Trades = views
		view.IsValid = true
		return view, nil
	}

	return domain.ViewOf(*result.RestingOrder, views, true), nil
}

// CancelOrder removes an order by id, returning a view of it as it
// stood immediately before removal (§9's cancel-snapshot resolution).
func (r *Registry) CancelOrder(baseAsset, quoteAsset string, side domain.Side, orderID uint64) (domain.OrderView, error) {
	ob, ok := r.lookupBook(baseAsset, quoteAsset)
	if !ok {
		return domain.OrderView{}, orderbook.ErrOrderNotFound
	}
	o, ok := ob.CancelOrder(side, orderID)
	if !ok {
		return domain.OrderView{}, orderbook.ErrOrderNotFound
	}
	return domain.ViewOf(o, nil, true), nil
}

// GetOrder searches every registered book (both sides of each) for
// orderID, first hit wins (§9's resolved cross-symbol collision policy
// — order ids are only unique within one book's arena, not globally).
// Matches §6's get_order contract verbatim: the caller supplies only an
// orderId, with no side or symbol to narrow the search. Does not
// auto-create books.
func (r *Registry) GetOrder(orderID uint64) (domain.OrderView, error) {
	for _, ob := range r.allBooks() {
		if o, ok := ob.GetOrder(orderID); ok {
			return domain.ViewOf(o, nil, true), nil
		}
	}
	return domain.OrderView{}, orderbook.ErrOrderNotFound
}

// GetBestOrder returns the best resting order on side for a symbol, or
// a NoOrderView sentinel if that side is empty. Auto-creates the book
// per §9 (a get_orderbook-family read is allowed to materialize an
// empty book for a never-traded symbol).
func (r *Registry) GetBestOrder(baseAsset, quoteAsset string, side domain.Side) domain.OrderView {
	ob := r.bookFor(baseAsset, quoteAsset)

	var o domain.Order
	var ok bool
	if side == domain.SideBid {
		o, ok = ob.BestBid()
	} else {
		o, ok = ob.BestAsk()
	}
	if !ok {
		return domain.NoOrderView(side, baseAsset, quoteAsset)
	}
	return domain.ViewOf(o, nil, true)
}

// OrderBookLevel is one depth row in an OrderBookView.
type OrderBookLevel struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// OrderBookView is the wire shape of the full-depth snapshot (§6).
type OrderBookView struct {
	BaseAsset  string           `json:"baseAsset"`
	QuoteAsset string           `json:"quoteAsset"`
	Bids       []OrderBookLevel `json:"bids"`
	Asks       []OrderBookLevel `json:"asks"`
}

// GetOrderBook returns the full depth snapshot for a symbol,
// auto-creating the book if this is the first time it's been seen.
func (r *Registry) GetOrderBook(baseAsset, quoteAsset string) OrderBookView {
	ob := r.bookFor(baseAsset, quoteAsset)
	snap := ob.Snapshot()

	view := OrderBookView{BaseAsset: baseAsset, QuoteAsset: quoteAsset}
	for _, lvl := range snap.Bids {
		view.Bids = append(view.Bids, OrderBookLevel{Price: lvl.Price.String(), Quantity: lvl.Quantity.String()})
	}
	for _, lvl := range snap.Asks {
		view.Asks = append(view.Asks, OrderBookLevel{Price: lvl.Price.String(), Quantity: lvl.Quantity.String()})
	}
	return view
}

// CheckAvailableFunds sums, across every registered book, the amount of
// asset locked behind account's resting orders (§4.5, §6). For each
// book symbol BASE_QUOTE: if asset equals that book's quote asset, every
// resting bid owned by account contributes price*quantity (notional, in
// the quote asset); if asset equals the book's base asset, every
// resting ask owned by account contributes its quantity directly.
// Account comparison is case-insensitive (§9: original_source treats
// account identifiers as case-insensitive). Does not auto-create books:
// an account with no orders anywhere simply gets back zero.
func (r *Registry) CheckAvailableFunds(account, asset string) domain.Decimal {
	locked := domain.Zero
	for _, ob := range r.allBooks() {
		base, quote := ob.BaseAsset, ob.QuoteAsset
		if strings.EqualFold(asset, quote) {
			ob.ForEachAccountOrder(domain.SideBid, account, func(o domain.Order) {
				locked = locked.Add(o.Price.Mul(o.Quantity))
			})
		}
		if strings.EqualFold(asset, base) {
			ob.ForEachAccountOrder(domain.SideAsk, account, func(o domain.Order) {
				locked = locked.Add(o.Quantity)
			})
		}
	}
	return locked
}
