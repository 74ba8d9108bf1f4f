package domain

// Side represents which side of the book an order rests on.
type Side int

const (
	SideBid Side = iota
	SideAsk
)

func (s Side) String() string {
	if s == SideBid {
		return "bid"
	}
	return "ask"
}

// ParseSide validates the wire-level side string.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "bid":
		return SideBid, true
	case "ask":
		return SideAsk, true
	default:
		return 0, false
	}
}

// OrderType mirrors the wire-level "type" field. Only limit orders are
// supported; market/stop/iceberg orders are an explicit non-goal.
type OrderType int

const (
	OrderTypeLimit OrderType = iota
	OrderTypeMarket
)

// ParseOrderType validates the wire-level type string.
func ParseOrderType(s string) (OrderType, bool) {
	switch s {
	case "limit":
		return OrderTypeLimit, true
	case "market":
		return OrderTypeMarket, true
	default:
		return 0, false
	}
}

// TaskCode classifies the outcome of a non-failing submission.
type TaskCode int

const (
	// TaskNoCrossNotBest: no cross, the new order is not the best price
	// on its side after insertion.
	TaskNoCrossNotBest TaskCode = 1
	// TaskNoCrossBest: no cross, the new order is the new best price.
	TaskNoCrossBest TaskCode = 2
	// TaskCrossPartial: crossed, the opposite best level still has
	// resting volume after the incoming order was fully consumed.
	TaskCrossPartial TaskCode = 3
	// TaskCrossAdvanced: crossed, the opposite best price advanced (or
	// the opposite side emptied out).
	TaskCrossAdvanced TaskCode = 4
)

// Order is the immutable-identity, mutable-quantity record submitted to
// and resting in an order book. OrderID is assigned once by the owning
// book and never reused; Quantity decreases via fills, can be raised or
// lowered through OrderBook.ModifyOrderQuantity, or the order is removed
// outright.
type Order struct {
	OrderID     uint64
	Account     string
	TradeID     string
	Side        Side
	Price       Decimal
	Quantity    Decimal
	BaseAsset   string
	QuoteAsset  string
	TimestampMS int64
	// PrivateKey is an opaque pass-through credential consumed by the
	// (out of scope) settlement layer. It is never inspected or logged
	// here.
	PrivateKey string
}

// OrderView is the read-only projection of an Order returned across the
// external interface boundary (§6). Decimal fields are strings to
// preserve precision on the wire.
type OrderView struct {
	OrderID    uint64      `json:"orderId"`
	Account    string      `json:"account"`
	Price      string      `json:"price"`
	Quantity   string      `json:"quantity"`
	Side       string      `json:"side"`
	BaseAsset  string      `json:"baseAsset"`
	QuoteAsset string      `json:"quoteAsset"`
	TradeID    string      `json:"trade_id"`
	Timestamp  int64       `json:"timestamp"`
	Trades     []TradeView `json:"trades"`
	IsValid    bool        `json:"isValid"`
}

// NoOrderView is the sentinel placeholder returned for a best-order
// query against an empty side: quantity zero, not valid, but otherwise
// shaped like a real OrderView so callers don't need a separate type.
func NoOrderView(side Side, baseAsset, quoteAsset string) OrderView {
	return OrderView{
		Price:      "0",
		Quantity:   "0",
		Side:       side.String(),
		BaseAsset:  baseAsset,
		QuoteAsset: quoteAsset,
		Trades:     nil,
		IsValid:    false,
	}
}

// ViewOf projects an Order into its external representation. trades is
// the set of TradeViews produced by the submission that created or
// touched this order (empty for cancellations and plain lookups).
func ViewOf(o Order, trades []TradeView, isValid bool) OrderView {
	return OrderView{
		OrderID:    o.OrderID,
		Account:    o.Account,
		Price:      o.Price.String(),
		Quantity:   o.Quantity.String(),
		Side:       o.Side.String(),
		BaseAsset:  o.BaseAsset,
		QuoteAsset: o.QuoteAsset,
		TradeID:    o.TradeID,
		Timestamp:  o.TimestampMS,
		Trades:     trades,
		IsValid:    isValid,
	}
}
