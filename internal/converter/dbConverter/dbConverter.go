package dbConverter

import (
	"github.com/freemarket-app/freemarket_client/internal/model"
	"github.com/freemarket-app/freemarket_client/internal/model/dbModel"
)

func ConvertConfirmation(confirmation model.TradeConfirmation) dbModel.Trade {
	return dbModel.Trade{
		Symbol:     confirmation.Symbol,
		Direction:  string(confirmation.Direction),
		Shares:     confirmation.ExecutedShares,
		Price:      confirmation.ExecutedPrice,
		TotalPrice: confirmation.ExecutedPrice.Mul(confirmation.ExecutedShares),
	}
}

func ConvertTrade(dbTrade dbModel.Trade) model.TradeRecord {
	return model.TradeRecord{
		Symbol:     dbTrade.Symbol,
		Direction:  model.Direction(dbTrade.Direction),
		Shares:     dbTrade.Shares,
		Price:      dbTrade.Price,
		TotalPrice: dbTrade.TotalPrice,
		CreatedAt:  dbTrade.CreatedAt,
	}
}
