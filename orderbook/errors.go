package orderbook

import "errors"

// Validation errors (§7 InvalidInput). Reported to the caller; no state
// change is made before they are returned.
var (
	ErrInvalidQuantity      = errors.New("orderbook: quantity must be > 0")
	ErrInvalidPrice         = errors.New("orderbook: price must be > 0")
	ErrInvalidSide          = errors.New("orderbook: side must be bid or ask")
	ErrUnsupportedOrderType = errors.New("orderbook: only limit orders are supported")
)

// ErrOrderNotFound is the NotFound error for a cancel/get against an
// absent order id.
var ErrOrderNotFound = errors.New("orderbook: order not found")

// ErrIntegrityViolation is raised when an internal consistency check
// fails (e.g. an order_map entry whose price level is missing from the
// tree). It is fatal for the affected book: surfaced, never repaired.
var ErrIntegrityViolation = errors.New("orderbook: integrity violation")
