package apiConverter

import (
	"github.com/freemarket-app/freemarket_client/internal/model"
	"github.com/freemarket-app/freemarket_client/internal/model/apiModel"
)

func ConvertPosition(stock apiModel.Stock) model.Position {
	return model.Position{
		Symbol:      stock.Symbol,
		Shares:      stock.Shares,
		LastPrice:   stock.Price,
		AverageCost: stock.AverageCost,
	}
}

func ConvertPortfolio(portfolio apiModel.Portfolio) model.Portfolio {
	positions := make([]model.Position, 0, len(portfolio.Stocks))
	for _, stock := range portfolio.Stocks {
		positions = append(positions, ConvertPosition(stock))
	}
	return model.Portfolio{
		Balance:   portfolio.Balance,
		Positions: positions,
	}
}

func ConvertTradeResponse(resp apiModel.TradeResponse) model.TradeConfirmation {
	return model.TradeConfirmation{
		Symbol:         resp.Transaction.Symbol,
		Direction:      model.Direction(resp.Transaction.TransactionType),
		ExecutedShares: resp.Transaction.Shares,
		ExecutedPrice:  resp.Transaction.Price,
		Position:       ConvertPosition(resp.Stock),
	}
}
