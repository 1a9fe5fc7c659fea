package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName — лист, на котором брокер выгружает выписку.
const DefaultSheetName = "Account_Statement_auto_EXC"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadGrid материализует один лист файла выписки в Grid. Формат выбирается
// по расширению: .xlsx/.xlsm через excelize, устаревший .xls через BIFF-ридер,
// .csv читается как плоская таблица (имя листа игнорируется).
func LoadGrid(data []byte, ext string, sheetName string) (Grid, error) {
	switch strings.ToLower(ext) {
	case ".xlsx", ".xlsm":
		return loadXLSX(data, sheetName)
	case ".xls":
		return loadXLS(data, sheetName)
	case ".csv":
		return loadCSV(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// LoadGridFromFile читает файл и загружает его по расширению из пути.
func LoadGridFromFile(path string, sheetName string) (Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statement file: %w", err)
	}
	return LoadGrid(data, filepath.Ext(path), sheetName)
}

func loadXLSX(data []byte, sheetName string) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, ErrSheetNotFound)
	}

	return gridFromRows(rows)
}

func loadXLS(data []byte, sheetName string) (Grid, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil || sheet.Name != sheetName {
			continue
		}

		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}

		return gridFromRows(rows)
	}

	return nil, fmt.Errorf("sheet %q: %w", sheetName, ErrSheetNotFound)
}

func loadCSV(data []byte) (Grid, error) {
	// pandas пишет csv в utf-8-sig, срезаем BOM перед разбором
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return gridFromRows(records)
}

func gridFromRows(rows [][]string) (Grid, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	grid := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		grid[i] = cells
	}

	return grid, nil
}
