package importer

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"rebalancer/internal/model"
	"rebalancer/utils"
)

// Позиционные колонки строки данных в разделе выписки.
const (
	colIssuer = iota
	colSecurityType
	colTradingCode
	colISIN
	colCurrency
	colQuantity
)

const (
	accountInfoRow = 3
	unknownAccount = "UNKNOWN"
)

var (
	accountCodeRe   = regexp.MustCompile(`код счёта: (\w+)`)
	accountNumRe    = regexp.MustCompile(`№(\w+)`)
	statementDateRe = regexp.MustCompile(`Дата составления[:\s]+(.+)`)
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseStatement собирает выписку из сетки: находит разделы, извлекает
// позиции (сначала облигации, затем акции и паи) и метаданные счёта.
// Если в сетке нет ни одного раздела, возвращается ErrNoSections.
func (p *Parser) ParseStatement(ctx context.Context, grid Grid) (model.BrokerStatement, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Parser.ParseStatement"

	slog.Debug("ParseStatement start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("rows", len(grid)))
	defer func() {
		slog.Debug("ParseStatement finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	spans := LocateSections(grid)
	if len(spans) == 0 {
		slog.Warn("no sections found in grid", slog.String("rqID", rqID), slog.String("op", op))
		return model.BrokerStatement{}, ErrNoSections
	}

	bonds := p.extractPositions(ctx, grid, spans, model.IsBondType)
	others := p.extractPositions(ctx, grid, spans, func(securityType string) bool {
		return !model.IsBondType(securityType)
	})

	positions := make([]model.SecurityPosition, 0, len(bonds)+len(others))
	for _, row := range bonds {
		positions = append(positions, row.SecurityPosition)
	}
	for _, row := range others {
		positions = append(positions, row.SecurityPosition)
	}

	statement := model.BrokerStatement{
		AccountNumber: extractAccountNumber(grid),
		StatementDate: extractStatementDate(grid),
		Positions:     positions,
	}

	slog.Debug(
		"statement assembled",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.String("accountNumber", statement.AccountNumber),
		slog.Int("positions", statement.TotalPositions()),
	)

	return statement, nil
}

// MergePositions извлекает позиции всех разделов подряд, без фильтра по
// типу, сохраняя порядок строк выписки. Результат идёт в сводную таблицу.
func (p *Parser) MergePositions(ctx context.Context, grid Grid) ([]model.MergedPosition, error) {
	spans := LocateSections(grid)
	if len(spans) == 0 {
		return nil, ErrNoSections
	}
	return p.extractPositions(ctx, grid, spans, nil), nil
}

// extractPositions проходит строки данных каждого раздела и собирает позиции,
// прошедшие фильтр accept по сырому типу инструмента (nil = без фильтра).
// Служебные строки пропускаются, битые строки отбрасываются молча.
func (p *Parser) extractPositions(ctx context.Context, grid Grid, spans []Span, accept func(string) bool) []model.MergedPosition {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Parser.extractPositions"

	var out []model.MergedPosition
	dropped := 0

	for _, span := range spans {
		for i := span.Start + 1; i <= span.End && i < len(grid); i++ {
			first := grid.CellAt(i, 0)
			if first == "" || first == headerToken || strings.Contains(first, totalsMarker) {
				continue
			}

			pos, ok := positionFromRow(grid, i)
			if !ok {
				dropped++
				continue
			}
			if accept != nil && !accept(pos.SecurityType) {
				continue
			}
			out = append(out, model.MergedPosition{SecurityPosition: pos, Section: span.Label})
		}
	}

	if dropped > 0 {
		slog.Debug("rows dropped during extraction", slog.String("rqID", rqID), slog.String("op", op), slog.Int("dropped", dropped))
	}

	return out
}

// positionFromRow читает одну строку данных. Строка отбрасывается, если нет
// эмитента, нет ISIN или количество не положительное.
func positionFromRow(grid Grid, row int) (model.SecurityPosition, bool) {
	pos := model.SecurityPosition{
		Issuer:       grid.CellAt(row, colIssuer),
		SecurityType: grid.CellAt(row, colSecurityType),
		TradingCode:  grid.CellAt(row, colTradingCode),
		ISIN:         grid.CellAt(row, colISIN),
		Currency:     normalizeCurrency(grid.CellAt(row, colCurrency)),
		Quantity:     parseQuantity(grid.CellAt(row, colQuantity)),
	}

	if pos.Issuer == "" || pos.ISIN == "" || pos.Quantity <= 0 {
		return model.SecurityPosition{}, false
	}

	return pos, true
}

// parseQuantity превращает "1 234" в 1234. Убираются любые пробельные
// символы, включая неразрывные пробелы-разделители тысяч. Всё, что после
// очистки не состоит из одних цифр, считается нулём.
func parseQuantity(raw string) int {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if cleaned == "" {
		return 0
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0
		}
	}

	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return n
}

// normalizeCurrency приводит отсутствующую валюту к пустой строке.
// Литерал "nan" появляется в csv-выгрузках из pandas.
func normalizeCurrency(raw string) string {
	if raw == "" || raw == "nan" {
		return ""
	}
	return raw
}

// extractAccountNumber достаёт номер счёта из ячейки с реквизитами.
// Сначала пробуем формат "код счёта: X", затем "№X".
func extractAccountNumber(grid Grid) string {
	info := grid.CellAt(accountInfoRow, 0)
	if m := accountCodeRe.FindStringSubmatch(info); m != nil {
		return m[1]
	}
	if m := accountNumRe.FindStringSubmatch(info); m != nil {
		return m[1]
	}
	return unknownAccount
}

// extractStatementDate достаёт дату составления из хвоста выписки.
func extractStatementDate(grid Grid) string {
	for i := range grid {
		if m := statementDateRe.FindStringSubmatch(grid.CellAt(i, 0)); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
