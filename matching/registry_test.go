package matching

import (
	"testing"

	"clobengine/domain"
	"clobengine/orderbook"
)

func req(account string, side domain.Side, price, qty, base, quote string) orderbook.SubmitRequest {
	return orderbook.SubmitRequest{
		Type:       domain.OrderTypeLimit,
		Account:    account,
		Side:       side,
		Price:      domain.MustParseDecimal(price),
		Quantity:   domain.MustParseDecimal(qty),
		BaseAsset:  base,
		QuoteAsset: quote,
	}
}

func TestSubmitOrderCreatesSymbolOnFirstUse(t *testing.T) {
	r := NewRegistry()

	view, err := r.SubmitOrder(req("alice", domain.SideBid, "49000", "1", "BTC", "USDT"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.IsValid {
		t.Error("expected a valid resting order view")
	}

	book := r.GetOrderBook("BTC", "USDT")
	if len(book.Bids) != 1 {
		t.Fatalf("expected 1 bid level, got %d", len(book.Bids))
	}
}

func TestGetOrderBookAutoCreatesEmptyBook(t *testing.T) {
	r := NewRegistry()

	book := r.GetOrderBook("ETH", "USDT")
	if len(book.Bids) != 0 || len(book.Asks) != 0 {
		t.Error("expected an empty book for a never-traded symbol")
	}
}

func TestGetOrderDoesNotAutoCreate(t *testing.T) {
	r := NewRegistry()

	if _, err := r.GetOrder(1); err != orderbook.ErrOrderNotFound {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestGetBestOrderSentinelForEmptySide(t *testing.T) {
	r := NewRegistry()

	view := r.GetBestOrder("BTC", "USDT", domain.SideBid)
	if view.IsValid {
		t.Error("expected sentinel view to be invalid")
	}
	if view.Quantity != "0" {
		t.Errorf("expected sentinel quantity 0, got %s", view.Quantity)
	}
}

func TestGetOrderFirstHitWinsAcrossSymbols(t *testing.T) {
	r := NewRegistry()

	viewA, err := r.SubmitOrder(req("alice", domain.SideBid, "1", "1", "BTC", "USDT"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	viewB, err := r.SubmitOrder(req("bob", domain.SideBid, "1", "1", "ETH", "USDT"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Distinct books each assign ids starting at 1, so both orders share
	// order id 1 on the bid side of two different symbols.
	if viewA.OrderID != viewB.OrderID {
		t.Skip("order ids did not collide in this run; nothing to verify")
	}

	got, err := r.GetOrder(viewA.OrderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Books are searched in registry map order, which Go leaves undefined,
	// so the first hit is either colliding order, returned whole.
	aliceHit := got.Account == "alice" && got.BaseAsset == "BTC"
	bobHit := got.Account == "bob" && got.BaseAsset == "ETH"
	if got.OrderID != viewA.OrderID || !(aliceHit || bobHit) {
		t.Errorf("expected one of the colliding orders to win, got %+v", got)
	}
}

func TestCheckAvailableFundsAggregatesAcrossBooks(t *testing.T) {
	r := NewRegistry()

	if _, err := r.SubmitOrder(req("alice", domain.SideBid, "100", "2", "BTC", "USDT")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.SubmitOrder(req("alice", domain.SideAsk, "1", "3", "ETH", "USDT")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Case-insensitive account match, same symbol/asset as the first order.
	if _, err := r.SubmitOrder(req("ALICE", domain.SideBid, "50", "1", "BTC", "USDT")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantQuote := domain.MustParseDecimal("250") // 100*2 + 50*1
	if got := r.CheckAvailableFunds("alice", "USDT"); !got.Equal(wantQuote) {
		t.Errorf("expected locked USDT 250, got %s", got)
	}
	wantBase := domain.MustParseDecimal("3")
	if got := r.CheckAvailableFunds("alice", "ETH"); !got.Equal(wantBase) {
		t.Errorf("expected locked ETH 3, got %s", got)
	}
	if got := r.CheckAvailableFunds("alice", "BTC"); !got.IsZero() {
		t.Errorf("expected no locked BTC (alice has no resting BTC asks), got %s", got)
	}
}

// TestCheckAvailableFundsScenarioF is spec scenario (f): one BASE_QUOTE
// book with a resting bid and a resting ask from the same account.
func TestCheckAvailableFundsScenarioF(t *testing.T) {
	r := NewRegistry()

	if _, err := r.SubmitOrder(req("alpha", domain.SideBid, "10", "4", "BASE", "QUOTE")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.SubmitOrder(req("alpha", domain.SideAsk, "20", "7", "BASE", "QUOTE")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := r.CheckAvailableFunds("alpha", "QUOTE"); !got.Equal(domain.MustParseDecimal("40")) {
		t.Errorf("expected lockedAmount(alpha, QUOTE) = 40, got %s", got)
	}
	if got := r.CheckAvailableFunds("alpha", "BASE"); !got.Equal(domain.MustParseDecimal("7")) {
		t.Errorf("expected lockedAmount(alpha, BASE) = 7, got %s", got)
	}
}

func TestCancelOrderUnknownSymbolIsNotFound(t *testing.T) {
	r := NewRegistry()

	if _, err := r.CancelOrder("BTC", "USDT", domain.SideBid, 1); err != orderbook.ErrOrderNotFound {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}
