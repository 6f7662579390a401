// Package apiModel holds the wire shapes of the trading backend.
package apiModel

import (
	"github.com/shopspring/decimal"
)

// ErrorResponse is the backend's structured error body on non-2xx statuses.
type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

type TradeRequest struct {
	InvestType string          `json:"investType"`
	Quantity   decimal.Decimal `json:"quantity"`
}

type Stock struct {
	Symbol      string          `json:"symbol"`
	Shares      decimal.Decimal `json:"shares"`
	Price       decimal.Decimal `json:"price"`
	AverageCost decimal.Decimal `json:"averageCost"`
}

type Transaction struct {
	Symbol          string          `json:"symbol"`
	TransactionType string          `json:"transactionType"`
	Shares          decimal.Decimal `json:"shares"`
	Price           decimal.Decimal `json:"price"`
}

// TradeResponse pairs the executed transaction with the resulting position
// snapshot.
type TradeResponse struct {
	Transaction Transaction `json:"transaction"`
	Stock       Stock       `json:"stock"`
}

type Portfolio struct {
	Balance decimal.Decimal `json:"balance"`
	Stocks  []Stock         `json:"stocks"`
}
