package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebalancer/internal/model"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "plain digits", raw: "100", want: 100},
		{name: "thousands separated by space", raw: "1 234", want: 1234},
		{name: "non-breaking space separator", raw: "1 234", want: 1234},
		{name: "empty", raw: "", want: 0},
		{name: "decimal point", raw: "12.5", want: 0},
		{name: "decimal comma", raw: "12,5", want: 0},
		{name: "text", raw: "сто", want: 0},
		{name: "digits with suffix", raw: "100 шт", want: 0},
		{name: "negative", raw: "-5", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseQuantity(tt.raw))
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "", normalizeCurrency(""))
	assert.Equal(t, "", normalizeCurrency("nan"))
	assert.Equal(t, "RUB", normalizeCurrency("RUB"))
}

func TestExtractAccountNumber(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string
	}{
		{
			name: "account code format",
			cell: "Договор на брокерское обслуживание, код счёта: 40817 от 01.01.2020",
			want: "40817",
		},
		{
			name: "numero format",
			cell: "Договор №ABC123 от 01.01.2020",
			want: "ABC123",
		},
		{
			name: "both formats prefers account code",
			cell: "Договор №111, код счёта: 222",
			want: "222",
		},
		{
			name: "no match",
			cell: "Отчёт брокера",
			want: "UNKNOWN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := Grid{{""}, {""}, {""}, {tt.cell}}
			assert.Equal(t, tt.want, extractAccountNumber(grid))
		})
	}

	t.Run("grid shorter than metadata row", func(t *testing.T) {
		assert.Equal(t, "UNKNOWN", extractAccountNumber(Grid{{"Эмитент"}}))
	})
}

func TestExtractStatementDate(t *testing.T) {
	grid := Grid{
		{"Отчёт"},
		{"Дата составления: 01.03.2024"},
	}
	assert.Equal(t, "01.03.2024", extractStatementDate(grid))
	assert.Equal(t, "", extractStatementDate(Grid{{"Отчёт"}}))
}

func statementGrid() Grid {
	return Grid{
		{"ООО Брокер"},
		{""},
		{""},
		{"Договор на брокерское обслуживание, код счёта: 40817 от 01.01.2020"},
		{""},
		{"Ценные бумаги"},
		{"Эмитент", "Наименование", "Код", "ISIN", "Валюта", "Остаток"},
		{"Сбер", "Обычная акция", "SBER03", "RU0009029540", "", "100"},
		{"ОФЗ 26238", "Государственная облигация", "SU26238", "RU000A1038V6", "RUB", "5"},
		{"Тинькофф", "пиф", "TRUR", "RU000A101X50", "nan", "40"},
		{"Итого по разделу: 3 бумаги"},
		{"Дата составления: 01.03.2024"},
	}
}

func TestParseStatement(t *testing.T) {
	p := NewParser()

	statement, err := p.ParseStatement(context.Background(), statementGrid())
	require.NoError(t, err)

	assert.Equal(t, "40817", statement.AccountNumber)
	assert.Equal(t, "01.03.2024", statement.StatementDate)
	require.Equal(t, 3, statement.TotalPositions())

	// облигации идут первыми независимо от порядка строк в выписке
	assert.Equal(t, "ОФЗ 26238", statement.Positions[0].Issuer)
	assert.True(t, statement.Positions[0].IsBond())
	assert.Equal(t, "Сбер", statement.Positions[1].Issuer)
	assert.Equal(t, "Тинькофф", statement.Positions[2].Issuer)

	assert.Equal(t, 1, statement.Bonds())
	assert.Equal(t, 1, statement.Stocks())
	assert.Equal(t, 1, statement.ETFs())

	sber := statement.Positions[1]
	assert.Equal(t, "Обычная акция", sber.SecurityType)
	assert.Equal(t, "SBER03", sber.TradingCode)
	assert.Equal(t, "RU0009029540", sber.ISIN)
	assert.Equal(t, "", sber.Currency)
	assert.Equal(t, 100, sber.Quantity)

	// "nan" из pandas-выгрузки не валюта
	assert.Equal(t, "", statement.Positions[2].Currency)
}

func TestParseStatementNoSections(t *testing.T) {
	p := NewParser()

	_, err := p.ParseStatement(context.Background(), Grid{{"Отчёт"}, {"без разделов"}})
	require.ErrorIs(t, err, ErrNoSections)
}

func TestParseStatementDropsNoiseRows(t *testing.T) {
	grid := Grid{
		{"Акции"},
		{"Эмитент", "Наименование", "Код", "ISIN", "Валюта", "Остаток"},
		{"Сбер", "Обычная акция", "SBER03", "RU0009029540", "", "100"},
		{"", "строка без эмитента", "X", "RU0000000001", "", "10"},
		{"Эмитент", "повтор заголовка", "", "", "", ""},
		{"Итого позиций: 2"},
		{"Без ISIN", "Обычная акция", "NOIS", "", "", "10"},
		{"Нулевой остаток", "Обычная акция", "ZERO", "RU0000000002", "", "0"},
		{"Кривое количество", "Обычная акция", "BAD", "RU0000000003", "", "10 шт"},
		{"Газпром", "Обычная акция", "GAZP", "RU0007661625", "RUB", "1 000"},
		{"Итого по разделу:"},
	}

	p := NewParser()
	statement, err := p.ParseStatement(context.Background(), grid)
	require.NoError(t, err)

	require.Equal(t, 2, statement.TotalPositions())
	assert.Equal(t, "Сбер", statement.Positions[0].Issuer)
	assert.Equal(t, "Газпром", statement.Positions[1].Issuer)
	assert.Equal(t, 1000, statement.Positions[1].Quantity)
}

func TestParseStatementUnclassifiedType(t *testing.T) {
	grid := Grid{
		{"Прочее"},
		{"Эмитент"},
		{"Депозитарий", "Депозитарная расписка", "DR01", "US0000000001", "USD", "7"},
		{"Итого по разделу:"},
	}

	p := NewParser()
	statement, err := p.ParseStatement(context.Background(), grid)
	require.NoError(t, err)

	// не облигация, не акция и не пай, но позиция учитывается
	require.Equal(t, 1, statement.TotalPositions())
	assert.Equal(t, 0, statement.Bonds())
	assert.Equal(t, 0, statement.Stocks())
	assert.Equal(t, 0, statement.ETFs())
}

func TestMergePositions(t *testing.T) {
	grid := Grid{
		{"Облигации"},
		{"Эмитент"},
		{"ОФЗ 26238", "Государственная облигация", "SU26238", "RU000A1038V6", "RUB", "5"},
		{"Итого по разделу:"},
		{"Акции"},
		{"Эмитент"},
		{"Сбер", "Обычная акция", "SBER03", "RU0009029540", "", "100"},
		{"Итого по счету:"},
	}

	p := NewParser()
	rows, err := p.MergePositions(context.Background(), grid)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Облигации", rows[0].Section)
	assert.Equal(t, "ОФЗ 26238", rows[0].Issuer)
	assert.Equal(t, "Акции", rows[1].Section)
	assert.Equal(t, "Сбер", rows[1].Issuer)
}

func TestMergePositionsNoSections(t *testing.T) {
	p := NewParser()

	_, err := p.MergePositions(context.Background(), Grid{{"пусто"}})
	require.ErrorIs(t, err, ErrNoSections)
}

func TestParseStatementTwice(t *testing.T) {
	p := NewParser()
	grid := statementGrid()

	first, err := p.ParseStatement(context.Background(), grid)
	require.NoError(t, err)
	second, err := p.ParseStatement(context.Background(), grid)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
