package main

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"clobengine/domain"
	"clobengine/matching"
	"clobengine/orderbook"
)

func main() {
	fmt.Println("=== order book throughput benchmark ===")

	registry := matching.NewRegistry()

	testDuration := 5 * time.Second
	numCPU := runtime.NumCPU()
	numWorkers := numCPU - 2
	if numWorkers < 1 {
		numWorkers = 1
	}

	var (
		orderCount atomic.Int64
		tradeCount atomic.Int64
	)

	fmt.Printf("cpu cores:  %d\n", numCPU)
	fmt.Printf("producers:  %d (NumCPU - 2)\n", numWorkers)
	fmt.Printf("duration:   %v\n\n", testDuration)

	startTime := time.Now()
	stopChan := make(chan struct{})

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			orderID := 0
			for {
				select {
				case <-stopChan:
					return
				default:
					var side domain.Side
					var price int
					if orderID%2 == 0 {
						side = domain.SideBid
						price = 50000 + orderID%200
					} else {
						side = domain.SideAsk
						price = 50000 + orderID%200
					}

					req := orderbook.SubmitRequest{
						Type:       domain.OrderTypeLimit,
						Account:    fmt.Sprintf("user-%d", workerID),
						Side:       side,
						Price:      domain.MustParseDecimal(fmt.Sprintf("%d", price)),
						Quantity:   domain.MustParseDecimal("1"),
						BaseAsset:  "BTC",
						QuoteAsset: "USDT",
					}
					view, err := registry.SubmitOrder(req)
					if err == nil {
						orderCount.Add(1)
						tradeCount.Add(int64(len(view.Trades)))
					}
					orderID++
				}
			}
		}(w)
	}

	ticker := time.NewTicker(1 * time.Second)
	go func() {
		for range ticker.C {
			elapsed := time.Since(startTime)
			orders := orderCount.Load()
			trades := tradeCount.Load()
			fmt.Printf("[%.0fs] orders: %d (%.0f/s) | trades: %d (%.0f/s)\n",
				elapsed.Seconds(), orders, float64(orders)/elapsed.Seconds(),
				trades, float64(trades)/elapsed.Seconds())
		}
	}()

	time.Sleep(testDuration)
	close(stopChan)
	ticker.Stop()

	elapsed := time.Since(startTime)
	totalOrders := orderCount.Load()
	totalTrades := tradeCount.Load()

	qps := float64(totalOrders) / elapsed.Seconds()
	tps := float64(totalTrades) / elapsed.Seconds()

	fmt.Println("\n=== results ===")
	fmt.Printf("elapsed:        %v\n", elapsed)
	fmt.Printf("total orders:   %d\n", totalOrders)
	fmt.Printf("total trades:   %d\n", totalTrades)
	fmt.Printf("order throughput: %.0f orders/sec\n", qps)
	fmt.Printf("trade throughput: %.0f trades/sec\n", tps)

	book := registry.GetOrderBook("BTC", "USDT")
	fmt.Println("\n=== book depth (top 5) ===")
	fmt.Println("bids:")
	for i, lvl := range top(book.Bids, 5) {
		fmt.Printf("  %d. price=%s qty=%s\n", i+1, lvl.Price, lvl.Quantity)
	}
	fmt.Println("asks:")
	for i, lvl := range top(book.Asks, 5) {
		fmt.Printf("  %d. price=%s qty=%s\n", i+1, lvl.Price, lvl.Quantity)
	}
}

func top(levels []matching.OrderBookLevel, n int) []matching.OrderBookLevel {
	if len(levels) < n {
		return levels
	}
	return levels[:n]
}
