package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rebalancer/internal/importer"
	"rebalancer/internal/model"
	"rebalancer/internal/reportGenerator/csvGenerator"
)

var (
	mergeSheet   string
	mergeAnalyze bool
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge <input.csv|.xls|.xlsx> [output.csv]",
	Short: "Объединяет разделы выписки в одну таблицу",
	Long: `Merge находит разделы выписки, извлекает позиции и сохраняет их
в одну нормализованную CSV-таблицу с названием раздела в последней колонке.

Примеры:
  stmtconv merge statement_sign.csv
  stmtconv merge statement_sign.csv merged_data.csv
  stmtconv merge statement_sign.xls --analyze`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeSheet, "sheet", importer.DefaultSheetName, "имя листа для чтения (для Excel файлов)")
	mergeCmd.Flags().BoolVar(&mergeAnalyze, "analyze", false, "показать структуру файла без объединения")
}

func runMerge(cmd *cobra.Command, args []string) error {
	inputFile := args[0]

	fmt.Printf("Читаем файл: %s\n", inputFile)

	grid, err := importer.LoadGridFromFile(inputFile, mergeSheet)
	if err != nil {
		return err
	}

	fmt.Printf("Размер данных: %d строк x %d колонок\n", len(grid), grid.MaxCols())

	if mergeAnalyze {
		printSections(grid)
		return nil
	}

	parser := importer.NewParser()

	merged, err := parser.MergePositions(cmd.Context(), grid)
	if err != nil {
		return err
	}

	fileBytes, _, err := csvGenerator.New().Generate(cmd.Context(), merged)
	if err != nil {
		return err
	}

	outputFile := strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + "_clean.csv"
	if len(args) == 2 {
		outputFile = args[1]
	}

	if err := os.WriteFile(outputFile, fileBytes, 0o644); err != nil {
		return err
	}

	sections := sectionOrder(merged)

	fmt.Println("\nРаспределение по разделам:")
	for _, section := range sections {
		count := 0
		for _, position := range merged {
			if position.Section == section {
				count++
			}
		}
		fmt.Printf("  %s: %d записей\n", section, count)
	}

	fmt.Printf("\nГотово! Объединено %d записей из %d секций\n", len(merged), len(sections))
	fmt.Printf("Результат сохранён в: %s\n", outputFile)
	return nil
}

// sectionOrder возвращает названия разделов в порядке появления позиций.
func sectionOrder(merged []model.MergedPosition) []string {
	var order []string
	seen := make(map[string]struct{})
	for _, position := range merged {
		if _, ok := seen[position.Section]; ok {
			continue
		}
		seen[position.Section] = struct{}{}
		order = append(order, position.Section)
	}
	return order
}
