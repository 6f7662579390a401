package postgres

import (
	"context"
	"log/slog"

	"github.com/freemarket-app/freemarket_client/internal/converter/dbConverter"
	"github.com/freemarket-app/freemarket_client/internal/model"
	"github.com/freemarket-app/freemarket_client/internal/model/dbModel"
	"github.com/freemarket-app/freemarket_client/utils"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

// InsertTrade journals one confirmed trade.
func (r *Postgres) InsertTrade(ctx context.Context, confirmation model.TradeConfirmation) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO trades(symbol, direction, shares, price, total_price)
	          VALUES(:symbol, :direction, :shares, :price, :total_price)`

	slog.Debug("InsertTrade start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertTrade failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertTrade completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).NamedExecContext(ctx, query, dbConverter.ConvertConfirmation(confirmation))
	if err != nil {
		return err
	}

	return nil
}

// GetTrades returns the full journal, oldest first.
func (r *Postgres) GetTrades(ctx context.Context) (trades []model.TradeRecord, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT trade_id, symbol, direction, shares, price, total_price, dt_create
	          FROM trades ORDER BY dt_create`

	slog.Debug("GetTrades start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetTrades failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTrades completed", slog.String("rqID", rqID))
		}
	}()

	dbTrades := []dbModel.Trade{}
	err = r.txOrDb(ctx).SelectContext(ctx, &dbTrades, query)
	if err != nil {
		return nil, err
	}

	trades = make([]model.TradeRecord, 0, len(dbTrades))
	for _, dbTrade := range dbTrades {
		trades = append(trades, dbConverter.ConvertTrade(dbTrade))
	}

	return trades, nil
}
