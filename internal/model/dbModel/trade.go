package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Trade struct {
	TradeID    int64           `db:"trade_id"`
	Symbol     string          `db:"symbol"`
	Direction  string          `db:"direction"`
	Shares     decimal.Decimal `db:"shares"`
	Price      decimal.Decimal `db:"price"`
	TotalPrice decimal.Decimal `db:"total_price"`
	CreatedAt  time.Time       `db:"dt_create"`
}
