package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	Buy  Direction = "Buy"
	Sell Direction = "Sell"
)

// InvestMode selects what Quantity means in a TradeIntent: a number of shares
// or an amount of account currency. The backend calls currency mode "Dollars".
type InvestMode string

const (
	InvestShares   InvestMode = "Shares"
	InvestCurrency InvestMode = "Dollars"
)

// MinTradeQuantity is the smallest quantity the backend accepts; anything
// below fails locally before submission.
var MinTradeQuantity = decimal.RequireFromString("0.1")

// TradeIntent is a user's pending trade request, not yet submitted.
type TradeIntent struct {
	Symbol     string
	Direction  Direction
	InvestMode InvestMode
	Quantity   decimal.Decimal
}

// Estimate projects the intent against a current price: shares for currency
// mode, cost for shares mode. Advisory only; the backend computes the
// authoritative execution price and share count.
func (i TradeIntent) Estimate(currentPrice decimal.Decimal) decimal.Decimal {
	if currentPrice.IsZero() {
		return decimal.Zero
	}
	if i.InvestMode == InvestCurrency {
		return i.Quantity.Div(currentPrice)
	}
	return i.Quantity.Mul(currentPrice)
}

// TradeRecord is one journaled trade, kept locally for reports.
type TradeRecord struct {
	Symbol     string
	Direction  Direction
	Shares     decimal.Decimal
	Price      decimal.Decimal
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

// TradeConfirmation is the backend's authoritative record of an executed
// trade. Position is the resulting post-trade position snapshot, never a
// delta.
type TradeConfirmation struct {
	Symbol         string
	Direction      Direction
	ExecutedShares decimal.Decimal
	ExecutedPrice  decimal.Decimal
	Position       Position
}
