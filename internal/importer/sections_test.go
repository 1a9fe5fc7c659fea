package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateSections(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want []Span
	}{
		{
			name: "no headers",
			grid: Grid{
				{"Отчёт брокера"},
				{"какие-то данные", "123"},
			},
			want: nil,
		},
		{
			name: "section closed by razdel terminator",
			grid: Grid{
				{"Акции"},
				{"Эмитент", "Наименование", "Код", "ISIN", "Валюта", "Остаток"},
				{"Сбер", "Обычная акция", "SBER03", "RU0009029540", "", "100"},
				{"Итого по разделу: 1 бумага"},
			},
			want: []Span{{Label: "Акции", Start: 1, End: 2}},
		},
		{
			name: "section closed by account terminator",
			grid: Grid{
				{"Облигации"},
				{"Эмитент"},
				{"ОФЗ", "Государственная облигация", "SU26238", "RU000A1038V6", "RUB", "5"},
				{"Итого по счету:"},
			},
			want: []Span{{Label: "Облигации", Start: 1, End: 2}},
		},
		{
			name: "section closed by blank row",
			grid: Grid{
				{"Акции"},
				{"Эмитент"},
				{"Сбер", "Обычная акция", "SBER03", "RU0009029540", "", "100"},
				{"", ""},
				{"примечание вне раздела"},
			},
			want: []Span{{Label: "Акции", Start: 1, End: 2}},
		},
		{
			name: "back to back headers",
			grid: Grid{
				{"Облигации"},
				{"Эмитент"},
				{"ОФЗ", "Государственная облигация", "SU26238", "RU000A1038V6", "RUB", "5"},
				{"Эмитент"},
				{"Сбер", "Обычная акция", "SBER03", "RU0009029540", "", "100"},
				{"Итого по разделу:"},
			},
			// у второго раздела нет своего названия, ближайшая непустая
			// строка сверху — последняя строка данных первого раздела
			want: []Span{
				{Label: "Облигации", Start: 1, End: 2},
				{Label: "ОФЗ", Start: 3, End: 4},
			},
		},
		{
			name: "open section runs to end of sheet",
			grid: Grid{
				{"Акции"},
				{"Эмитент"},
				{"Сбер", "Обычная акция", "SBER03", "RU0009029540", "", "100"},
				{"Газпром", "Обычная акция", "GAZP", "RU0007661625", "", "20"},
			},
			want: []Span{{Label: "Акции", Start: 1, End: 3}},
		},
		{
			name: "trailer rows skipped at end of sheet",
			grid: Grid{
				{"Акции"},
				{"Эмитент"},
				{"Сбер", "Обычная акция", "SBER03", "RU0009029540", "", "100"},
				{"Итого облигаций: 0"},
				{"Дата составления: 01.03.2024"},
			},
			want: []Span{{Label: "Акции", Start: 1, End: 2}},
		},
		{
			name: "header at end with nothing after it",
			grid: Grid{
				{"Акции"},
				{"Эмитент"},
			},
			want: []Span{{Label: "Акции", Start: 1, End: 1}},
		},
		{
			name: "two sections with terminators",
			grid: Grid{
				{"Облигации"},
				{"Эмитент"},
				{"ОФЗ", "Государственная облигация", "SU26238", "RU000A1038V6", "RUB", "5"},
				{"Итого по разделу:"},
				{"Акции"},
				{"Эмитент"},
				{"Сбер", "Обычная акция", "SBER03", "RU0009029540", "", "100"},
				{"Итого по счету:"},
			},
			want: []Span{
				{Label: "Облигации", Start: 1, End: 2},
				{Label: "Акции", Start: 5, End: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocateSections(tt.grid)
			require.Equal(t, tt.want, got)

			for i, span := range got {
				assert.LessOrEqual(t, span.Start, span.End, "span %d inverted", i)
				if i > 0 {
					assert.Greater(t, span.Start, got[i-1].End, "span %d overlaps previous", i)
				}
			}
		})
	}
}

func TestInferSectionLabel(t *testing.T) {
	tests := []struct {
		name      string
		grid      Grid
		headerRow int
		want      string
	}{
		{
			name: "label directly above",
			grid: Grid{
				{"Акции"},
				{"Эмитент"},
			},
			headerRow: 1,
			want:      "Акции",
		},
		{
			name: "nearest candidate wins",
			grid: Grid{
				{"Сведения о бумагах"},
				{"Акции"},
				{"Эмитент"},
			},
			headerRow: 2,
			want:      "Акции",
		},
		{
			name: "totals and header rows skipped",
			grid: Grid{
				{"Облигации"},
				{"Итого по разделу:"},
				{"Эмитент продолжение"},
				{"Эмитент"},
			},
			headerRow: 3,
			want:      "Облигации",
		},
		{
			name: "surrounding quotes stripped",
			grid: Grid{
				{`"Сведения о ценных бумагах"`},
				{"Эмитент"},
			},
			headerRow: 1,
			want:      "Сведения о ценных бумагах",
		},
		{
			name: "label outside window",
			grid: Grid{
				{"Акции"},
				{""},
				{""},
				{""},
				{"Эмитент"},
			},
			headerRow: 4,
			want:      "Unknown",
		},
		{
			name:      "header on first row",
			grid:      Grid{{"Эмитент"}},
			headerRow: 0,
			want:      "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferSectionLabel(tt.grid, tt.headerRow))
		})
	}
}
