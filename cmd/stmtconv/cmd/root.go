package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rebalancer/internal/importer"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stmtconv",
	Short: "Утилиты для работы с брокерскими выписками",
	Long: `Stmtconv конвертирует брокерские выписки из Excel в CSV и собирает
разделы выписки в одну нормализованную таблицу.

Примеры:
  stmtconv convert statement_sign.xls
  stmtconv convert statement_sign.xls --analyze
  stmtconv merge statement_sign.csv merged.csv`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// printSections выводит найденные разделы выписки: строки указаны по данным,
// без строки-заголовка.
func printSections(grid importer.Grid) {
	spans := importer.LocateSections(grid)

	fmt.Printf("\nНайдено секций: %d\n", len(spans))

	total := 0
	for i, span := range spans {
		count := span.End - span.Start
		if count < 0 {
			count = 0
		}
		fmt.Printf("  %d. %s: строки %d-%d (%d записей)\n", i+1, span.Label, span.Start+1, span.End, count)
		total += count
	}

	fmt.Printf("\nОбщее количество записей для обработки: %d\n", total)
}
