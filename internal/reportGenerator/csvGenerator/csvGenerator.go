package csvGenerator

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"rebalancer/internal/model"
	"rebalancer/utils"
)

// Колонки сводной таблицы. Название раздела всегда последней колонкой.
var mergedTableHeader = []string{
	"Эмитент",
	"Наименование Ценной Бумаги",
	"Регистрационный номер",
	"ISIN",
	"Выпуск/ серия/ транш",
	"Остаток (шт.)",
	"Раздел",
}

type CSVGenerator struct{}

func New() *CSVGenerator {
	return &CSVGenerator{}
}

// Generate собирает сводную таблицу позиций в csv.
func (g *CSVGenerator) Generate(ctx context.Context, rows []model.MergedPosition) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "CSVGenerator.Generate"

	if len(rows) == 0 {
		return nil, "", errors.New("empty positions")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("rows", len(rows)))

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(mergedTableHeader); err != nil {
		return nil, "", err
	}

	for _, row := range rows {
		record := []string{
			cleanValue(row.Issuer),
			cleanValue(row.SecurityType),
			cleanValue(row.TradingCode),
			cleanValue(row.ISIN),
			cleanValue(row.Currency),
			strconv.Itoa(row.Quantity),
			cleanValue(row.Section),
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		slog.Error("got error while flushing csv", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".csv", nil
}

// cleanValue снимает обрамляющие кавычки, попавшие в ячейки из выгрузки.
func cleanValue(s string) string {
	return strings.TrimSpace(strings.Trim(s, `"`))
}
