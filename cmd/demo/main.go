package main

import (
	"fmt"
	"log"
	"time"

	"matchbook/internal/book"

	"github.com/shopspring/decimal"
)

// Seed a small ladder, sweep it with a market buy, and print the
// resulting depth and trade log.
func main() {
	ob := book.New("AAPL")
	now := time.Now()

	// Bids.
	for _, price := range []float64{99.0, 99.5, 100.0, 100.5} {
		mustAdd(ob, book.Order{
			ID:        1000 + uint64(price*10),
			Symbol:    "AAPL",
			Side:      book.Buy,
			Type:      book.Limit,
			Price:     decimal.NewFromFloat(price),
			Quantity:  1000,
			Timestamp: now,
		})
	}

	// Asks.
	for _, price := range []float64{101.0, 101.5, 102.0, 102.5} {
		mustAdd(ob, book.Order{
			ID:        2000 + uint64(price*10),
			Symbol:    "AAPL",
			Side:      book.Sell,
			Type:      book.Limit,
			Price:     decimal.NewFromFloat(price),
			Quantity:  800,
			Timestamp: now,
		})
	}

	// A market buy consumes the two best ask levels.
	mustAdd(ob, book.Order{
		ID:        3000,
		Symbol:    "AAPL",
		Side:      book.Buy,
		Type:      book.Market,
		Quantity:  1500,
		Timestamp: now,
	})

	fmt.Println("Bids:")
	for _, lvl := range ob.Bids(0) {
		fmt.Printf("Price: %s, Quantity: %d\n", lvl.Price, lvl.Quantity)
	}

	fmt.Println("\nAsks:")
	for _, lvl := range ob.Asks(0) {
		fmt.Printf("Price: %s, Quantity: %d\n", lvl.Price, lvl.Quantity)
	}

	fmt.Println("\nTrades:")
	for _, trade := range ob.Trades() {
		fmt.Printf("Trade ID: %d, Price: %s, Quantity: %d\n", trade.ID, trade.Price, trade.Quantity)
	}
}

func mustAdd(ob *book.Book, o book.Order) {
	if _, err := ob.AddOrder(o); err != nil {
		log.Fatalf("Failed to add order %d: %v", o.ID, err)
	}
}
