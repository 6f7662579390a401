package model

import (
	"github.com/shopspring/decimal"
)

// Position is one owned security. Symbol is unique within a portfolio.
type Position struct {
	Symbol      string
	Shares      decimal.Decimal
	LastPrice   decimal.Decimal
	AverageCost decimal.Decimal
}

// Portfolio holds the account cash balance and owned positions in arrival
// order. Balance is a client-side mirror of the backend's balance; a full
// reload is the authority.
type Portfolio struct {
	Balance   decimal.Decimal
	Positions []Position
}

// MarketWorth sums LastPrice*Shares over all positions. Zero for an empty
// portfolio.
func (p Portfolio) MarketWorth() decimal.Decimal {
	worth := decimal.Zero
	for _, pos := range p.Positions {
		worth = worth.Add(pos.LastPrice.Mul(pos.Shares))
	}
	return worth
}
