package importer

// Grid — содержимое одного листа выписки: строки текстовых ячеек.
// Ячейки обрезаются от пробелов один раз при загрузке. Строки могут быть
// разной длины, обращение за пределы строки читается как пустая ячейка.
type Grid [][]string

// CellAt возвращает текст ячейки или пустую строку, если строки или колонки
// не существует. Никогда не паникует.
func (g Grid) CellAt(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// RowEmpty сообщает, что все ячейки строки пусты. Несуществующая строка
// тоже считается пустой.
func (g Grid) RowEmpty(row int) bool {
	if row < 0 || row >= len(g) {
		return true
	}
	for _, cell := range g[row] {
		if cell != "" {
			return false
		}
	}
	return true
}

// MaxCols возвращает ширину самой длинной строки.
func (g Grid) MaxCols() int {
	max := 0
	for _, row := range g {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}
