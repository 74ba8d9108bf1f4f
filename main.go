package main

import (
	"fmt"

	"clobengine/domain"
	"clobengine/matching"
	"clobengine/orderbook"
)

func main() {
	registry := matching.NewRegistry()

	sell := orderbook.SubmitRequest{
		Type:       domain.OrderTypeLimit,
		Account:    "user-1",
		Side:       domain.SideAsk,
		Price:      domain.MustParseDecimal("50000"),
		Quantity:   domain.MustParseDecimal("1"),
		BaseAsset:  "BTC",
		QuoteAsset: "USDT",
	}
	sellView, err := registry.SubmitOrder(sell)
	if err != nil {
		panic(err)
	}
	fmt.Printf("submitted sell order: 1 BTC @ 50000 USDT (order %d)\n", sellView.OrderID)

	buy := orderbook.SubmitRequest{
		Type:       domain.OrderTypeLimit,
		Account:    "user-2",
		Side:       domain.SideBid,
		Price:      domain.MustParseDecimal("50000"),
		Quantity:   domain.MustParseDecimal("0.5"),
		BaseAsset:  "BTC",
		QuoteAsset: "USDT",
	}
	buyView, err := registry.SubmitOrder(buy)
	if err != nil {
		panic(err)
	}
	fmt.Printf("submitted buy order: 0.5 BTC @ 50000 USDT\n")

	for _, trade := range buyView.Trades {
		fmt.Printf("trade executed: price=%s quantity=%s maker=%s taker=%s\n",
			trade.Price, trade.Quantity, trade.Party1.Account, trade.Party2.Account)
	}

	book := registry.GetOrderBook("BTC", "USDT")
	fmt.Println("\norder book:")
	for _, lvl := range book.Bids {
		fmt.Printf("  bid  price=%s qty=%s\n", lvl.Price, lvl.Quantity)
	}
	for _, lvl := range book.Asks {
		fmt.Printf("  ask  price=%s qty=%s\n", lvl.Price, lvl.Quantity)
	}
}
