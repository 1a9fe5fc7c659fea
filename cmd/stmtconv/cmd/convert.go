package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rebalancer/internal/importer"
)

var (
	convertSheet   string
	convertAnalyze bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <input.xls|.xlsx> [output.csv]",
	Short: "Конвертирует лист брокерской выписки в CSV",
	Long: `Convert читает указанный лист выписки и сохраняет его в CSV как есть,
без нормализации. Файл пишется с BOM, чтобы Excel корректно открывал кириллицу.

Примеры:
  stmtconv convert statement_sign.xls
  stmtconv convert statement_sign.xls output.csv
  stmtconv convert statement_sign.xls --sheet "Other_Sheet"
  stmtconv convert statement_sign.xls --analyze`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertSheet, "sheet", importer.DefaultSheetName, "имя листа для чтения")
	convertCmd.Flags().BoolVar(&convertAnalyze, "analyze", false, "показать структуру файла без конвертации")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputFile := args[0]

	fmt.Printf("Читаем файл: %s\n", inputFile)

	grid, err := importer.LoadGridFromFile(inputFile, convertSheet)
	if err != nil {
		return err
	}

	fmt.Printf("Размер данных: %d строк x %d колонок\n", len(grid), grid.MaxCols())

	if convertAnalyze {
		printSections(grid)
		return nil
	}

	outputFile := strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + ".csv"
	if len(args) == 2 {
		outputFile = args[1]
	}

	if err := writeGridCSV(outputFile, grid); err != nil {
		return err
	}

	fmt.Printf("Сохранено в файл: %s\n", outputFile)
	return nil
}

// writeGridCSV пишет сетку в csv с UTF-8 BOM.
func writeGridCSV(path string, grid importer.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := f.Write([]byte("\xef\xbb\xbf")); err != nil {
		f.Close()
		return err
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(grid); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
