package domain

// TradeParty is one side of a Trade. On the maker side (the resting
// order that defined the trade price) OrderID and RemainingQty are set.
// On the taker side they are nil: the taker was never resting at trade
// time, so there is nothing to report.
type TradeParty struct {
	Account      string
	Side         Side
	OrderID      *uint64
	RemainingQty *Decimal
	Credential   string
}

// Trade records one match between a resting (maker) order and an
// incoming (taker) order. Price is always the maker's price, per
// price-time priority in the maker's favor.
type Trade struct {
	TimestampMS int64
	Price       Decimal
	Quantity    Decimal
	Tick        uint64
	Party1      TradeParty // maker
	Party2      TradeParty // taker
}

// TradePartyView is the wire projection of a TradeParty.
type TradePartyView struct {
	Account      string  `json:"account"`
	Side         string  `json:"side"`
	OrderID      *uint64 `json:"orderId"`
	RemainingQty *string `json:"remainingQty"`
	Credential   string  `json:"credential"`
}

// TradeView is the wire projection of a Trade (§6).
type TradeView struct {
	Timestamp int64          `json:"timestamp"`
	Price     string         `json:"price"`
	Quantity  string         `json:"quantity"`
	Time      uint64         `json:"time"`
	Party1    TradePartyView `json:"party1"`
	Party2    TradePartyView `json:"party2"`
}

func viewOfParty(p TradeParty) TradePartyView {
	var qty *string
	if p.RemainingQty != nil {
		s := p.RemainingQty.String()
		qty = &s
	}
	return TradePartyView{
		Account:      p.Account,
		Side:         p.Side.String(),
		OrderID:      p.OrderID,
		RemainingQty: qty,
		Credential:   p.Credential,
	}
}

// ViewOfTrade projects a Trade into its wire representation.
func ViewOfTrade(t Trade) TradeView {
	return TradeView{
		Timestamp: t.TimestampMS,
		Price:     t.Price.String(),
		Quantity:  t.Quantity.String(),
		Time:      t.Tick,
		Party1:    viewOfParty(t.Party1),
		Party2:    viewOfParty(t.Party2),
	}
}
