package cmd

import (
	"fmt"
	"os"

	"github.com/chrisdamba/promolift/internal/analyzer"
	"github.com/spf13/cobra"
)

var gradeCmd = &cobra.Command{
	Use:   "grade [file]",
	Short: "Grade finished promotions against their weekly sales history",
	Long: `Reads a relational history file (one row per product week), groups the
rows by product and grades each promotion week against its breakeven lift.
Weekly grade and per-product summary events go to the configured output
destination; a one-line verdict per product is printed at the end.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		report, err := analyzer.New(cfg).GradeFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		analyzer.RenderGradeReport(os.Stdout, report)

		if detail, _ := cmd.Flags().GetBool("detail"); detail {
			for _, result := range report.Results {
				fmt.Fprintln(os.Stdout)
				analyzer.RenderHistorical(os.Stdout, result)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(gradeCmd)
	gradeCmd.Flags().Bool("detail", false, "Print the full week-by-week table for every product")
}
