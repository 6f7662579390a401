package model

import (
	"github.com/shopspring/decimal"
)

type SymbolInfo struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
}

type PriceInfo struct {
	Price      decimal.Decimal `json:"price"`
	Open       decimal.Decimal `json:"open"`
	Close      decimal.Decimal `json:"close"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Week52High decimal.Decimal `json:"week52High"`
	Week52Low  decimal.Decimal `json:"week52Low"`
}

type CompanyProfile struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"companyName"`
	CEO         string    `json:"ceo"`
	Employees   int       `json:"employees"`
	Exchange    string    `json:"exchange"`
	Industry    string    `json:"industry"`
	PriceInfo   PriceInfo `json:"priceInfo"`
}
