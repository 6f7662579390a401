package xlsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/freemarket-app/freemarket_client/internal/model"
	"github.com/freemarket-app/freemarket_client/utils"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Portfolio"

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate renders the portfolio snapshot and the trade journal into a
// spreadsheet and returns its bytes with the file extension.
func (g *XLSXGenerator) Generate(ctx context.Context, portfolio model.Portfolio, trades []model.TradeRecord) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	if len(portfolio.Positions) == 0 && len(trades) == 0 {
		return nil, "", errors.New("empty portfolio and trade history")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", closeErr.Error()))
		}
	}()

	if _, err = f.NewSheet(sheetName); err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err = g.fillSummary(f, portfolio); err != nil {
		return nil, "", err
	}

	positionsEnd, err := g.fillPositions(f, portfolio)
	if err != nil {
		return nil, "", err
	}

	if err = g.fillTrades(f, trades, positionsEnd+2); err != nil {
		return nil, "", err
	}

	if err = f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) headerStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
}

func (g *XLSXGenerator) fillSummary(f *excelize.File, portfolio model.Portfolio) error {
	if err := f.MergeCell(sheetName, "A1", "B1"); err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Account")

	styleID, err := g.headerStyle(f, "#cfe2f3") // light blue
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	_ = f.SetCellStr(sheetName, "A2", "cash balance")
	_ = f.SetCellValue(sheetName, "B2", portfolio.Balance.InexactFloat64())
	_ = f.SetCellStr(sheetName, "A3", "market worth")
	_ = f.SetCellValue(sheetName, "B3", portfolio.MarketWorth().InexactFloat64())

	return nil
}

// fillPositions writes the positions table and returns the last used row.
func (g *XLSXGenerator) fillPositions(f *excelize.File, portfolio model.Portfolio) (int, error) {
	const startRow = 5

	if err := f.MergeCell(sheetName, fmt.Sprintf("A%d", startRow), fmt.Sprintf("E%d", startRow)); err != nil {
		return 0, err
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", startRow), "Positions")

	styleID, err := g.headerStyle(f, "#d9ead3") // light green
	if err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", startRow), fmt.Sprintf("A%d", startRow), styleID); err != nil {
		return 0, fmt.Errorf("apply style: %w", err)
	}

	headerRow := startRow + 1
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", headerRow), "symbol")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", headerRow), "shares")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", headerRow), "last price")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("D%d", headerRow), "average cost")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("E%d", headerRow), "equity")

	row := headerRow
	for _, position := range portfolio.Positions {
		row++
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), position.Symbol)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), position.Shares.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), position.LastPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), position.AverageCost.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), position.LastPrice.Mul(position.Shares).InexactFloat64())
	}

	return row, nil
}

func (g *XLSXGenerator) fillTrades(f *excelize.File, trades []model.TradeRecord, startRow int) error {
	if err := f.MergeCell(sheetName, fmt.Sprintf("A%d", startRow), fmt.Sprintf("F%d", startRow)); err != nil {
		return err
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", startRow), "Trade history")

	styleID, err := g.headerStyle(f, "#f9cb9c") // light orange
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", startRow), fmt.Sprintf("A%d", startRow), styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	row := startRow + 1
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), "symbol")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), "direction")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), "shares")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("D%d", row), "price")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("E%d", row), "total")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("F%d", row), "date")

	for _, trade := range trades {
		row++
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), trade.Symbol)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), string(trade.Direction))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), trade.Shares.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), trade.Price.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), trade.TotalPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), trade.CreatedAt)
	}

	return nil
}
