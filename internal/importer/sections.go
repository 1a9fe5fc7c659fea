package importer

import "strings"

// Маркеры разметки выписки. Заголовок таблицы всегда начинается с ячейки
// "Эмитент", итоговые строки и дата составления закрывают разделы.
const (
	headerToken         = "Эмитент"
	totalsMarker        = "Итого"
	statementDateMarker = "Дата составления"
	sectionLabelUnknown = "Unknown"
	labelSearchWindow   = 3
)

var sectionTerminators = []string{"Итого по разделу", "Итого по счету"}

// Span — один раздел выписки. Start указывает на строку-заголовок,
// строки данных занимают Start+1..End включительно.
type Span struct {
	Label string
	Start int
	End   int
}

// LocateSections находит разделы выписки по строкам-заголовкам.
// Разделы идут в порядке появления и не пересекаются. Если заголовков нет,
// возвращается nil.
func LocateSections(grid Grid) []Span {
	var spans []Span
	var cur Span
	open := false

	for i := range grid {
		first := grid.CellAt(i, 0)

		if first == headerToken {
			if open {
				cur.End = i - 1
				spans = append(spans, cur)
			}
			cur = Span{Label: inferSectionLabel(grid, i), Start: i}
			open = true
			continue
		}

		if !open {
			continue
		}

		// итоговая строка или полностью пустая строка закрывают раздел
		if isSectionTerminator(first) || grid.RowEmpty(i) {
			cur.End = i - 1
			spans = append(spans, cur)
			open = false
		}
	}

	if open {
		cur.End = lastSectionRow(grid, cur.Start)
		spans = append(spans, cur)
	}

	return spans
}

// inferSectionLabel подбирает название раздела: ближайшая сверху непустая
// ячейка первой колонки, не дальше labelSearchWindow строк от заголовка.
// Строки с заголовком или итогами пропускаются. Если ничего не нашлось,
// раздел получает имя по умолчанию.
func inferSectionLabel(grid Grid, headerRow int) string {
	for i := headerRow - 1; i >= 0 && i >= headerRow-labelSearchWindow; i-- {
		cell := grid.CellAt(i, 0)
		if cell == "" || strings.HasPrefix(cell, headerToken) || strings.HasPrefix(cell, totalsMarker) {
			continue
		}
		return stripSurroundingQuotes(cell)
	}
	return sectionLabelUnknown
}

func isSectionTerminator(cell string) bool {
	for _, term := range sectionTerminators {
		if strings.Contains(cell, term) {
			return true
		}
	}
	return false
}

// lastSectionRow ищет конец раздела, дошедшего до конца листа: последняя
// строка с непустой первой ячейкой, не считая итогов и даты составления.
// Если таких строк нет, раздел заканчивается на собственном заголовке.
func lastSectionRow(grid Grid, headerRow int) int {
	for i := len(grid) - 1; i > headerRow; i-- {
		first := grid.CellAt(i, 0)
		if first == "" || strings.HasPrefix(first, totalsMarker) || strings.HasPrefix(first, statementDateMarker) {
			continue
		}
		return i
	}
	return headerRow
}

func stripSurroundingQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
