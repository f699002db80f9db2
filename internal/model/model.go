package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a user in the database
type User struct {
	ID       int
	Username string
	Cash     decimal.Decimal
}

// Trade represents one immutable ledger entry for a buy or a sell.
//
// Shares are positive for buys and negative for sells, so the shares a user
// holds of a symbol are the sum of Shares over all of their trades for it.
type Trade struct {
	ID     int
	Symbol string
	Shares int
	Price  decimal.Decimal
	Name   string
	Time   time.Time
}

// Holding represents the net position a user has in one symbol.
type Holding struct {
	Symbol string
	Name   string
	Shares int
	Price  decimal.Decimal
	Value  decimal.Decimal
}
