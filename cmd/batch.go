package cmd

import (
	"fmt"
	"os"

	"github.com/chrisdamba/promolift/internal/analyzer"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Analyze every promotion in a CSV, TSV or XLSX file",
	Long: `Reads a flat promotions file (one row per promotion), analyzes each row
and emits one analysis event plus one event per lift scenario to the
configured output destination. Rows that fail validation produce error
events and are reported at the end; they never stop the rest of the file.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		report, err := analyzer.New(cfg).AnalyzeFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		analyzer.RenderBatchReport(os.Stdout, report)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
