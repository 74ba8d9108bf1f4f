package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"clobengine/domain"
	"clobengine/matching"
	"clobengine/orderbook"
)

func main() {
	cpuFile, err := os.Create("cpu.prof")
	if err != nil {
		panic(err)
	}
	defer cpuFile.Close()

	pprof.StartCPUProfile(cpuFile)
	defer pprof.StopCPUProfile()

	fmt.Println("=== profiling ===")
	fmt.Println("writing cpu profile to cpu.prof")

	registry := matching.NewRegistry()

	duration := 10 * time.Second
	numCPU := runtime.NumCPU()
	numWorkers := numCPU - 2
	if numWorkers < 1 {
		numWorkers = 1
	}

	var (
		orderCount atomic.Int64
		tradeCount atomic.Int64
	)

	fmt.Printf("cpu cores: %d\n", numCPU)
	fmt.Printf("producers: %d\n", numWorkers)
	fmt.Printf("duration:  %v\n\n", duration)

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

	time.Sleep(duration)
	close(stopChan)

	elapsed := time.Since(startTime)
	totalOrders := orderCount.Load()
	totalTrades := tradeCount.Load()

	fmt.Println("\n=== results ===")
	fmt.Printf("total orders: %d\n", totalOrders)
	fmt.Printf("total trades: %d\n", totalTrades)
	fmt.Printf("order qps: %.0f orders/sec\n", float64(totalOrders)/elapsed.Seconds())
	fmt.Printf("trade tps: %.0f trades/sec\n", float64(totalTrades)/elapsed.Seconds())

	fmt.Println("\nanalyze with:")
	fmt.Println("  go tool pprof -http=:8080 cpu.prof")
	fmt.Println("  top10")
	fmt.Println("  list <function>")
}
