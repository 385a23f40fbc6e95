package cmd

import (
	"fmt"
	"os"

	"github.com/chrisdamba/promolift/internal/analyzer"
	"github.com/chrisdamba/promolift/internal/models"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a single planned promotion from flags",
	Long: `Computes the per-unit margin stack, breakeven lift and scenario
projections for one promotion described entirely on the command line, and
prints the result as a report. Events are additionally emitted when an
output format or Kafka is configured.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		input := models.PromotionInput{}
		input.ProductName, _ = cmd.Flags().GetString("product")
		input.StandardPrice, _ = cmd.Flags().GetFloat64("standard-price")
		input.PromoPrice, _ = cmd.Flags().GetFloat64("promo-price")
		input.COGS, _ = cmd.Flags().GetFloat64("cogs")
		input.LogisticsCost, _ = cmd.Flags().GetFloat64("logistics-cost")
		input.OtherVariableCosts, _ = cmd.Flags().GetFloat64("other-costs")
		input.PromoCostPerUnit, _ = cmd.Flags().GetFloat64("promo-cost")
		input.PromoTerms, _ = cmd.Flags().GetString("terms")
		input.BaselineUnits, _ = cmd.Flags().GetFloat64("baseline-units")

		a := analyzer.New(cfg)
		result, err := a.AnalyzePromotion(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		analyzer.RenderPromotion(os.Stdout, result)

		if cfg.KafkaEnabled || cfg.OutputFormat != "" {
			if err := a.PublishPromotion(result); err != nil {
				fmt.Fprintf(os.Stderr, "Error publishing events: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("product", "", "Product name")
	analyzeCmd.Flags().Float64("standard-price", 0, "Regular shelf price per unit")
	analyzeCmd.Flags().Float64("promo-price", 0, "Promotional price per unit")
	analyzeCmd.Flags().Float64("cogs", 0, "Cost of goods sold per unit")
	analyzeCmd.Flags().Float64("logistics-cost", 0, "Logistics cost per unit")
	analyzeCmd.Flags().Float64("other-costs", 0, "Other variable costs per unit")
	analyzeCmd.Flags().Float64("promo-cost", 0, "Extra cost per unit incurred only during the promotion")
	analyzeCmd.Flags().String("terms", "", "Free-text promotion terms, carried through to the report")
	analyzeCmd.Flags().Float64("baseline-units", 0, "Weekly baseline volume (config default when omitted)")
	analyzeCmd.MarkFlagRequired("product")
	analyzeCmd.MarkFlagRequired("standard-price")
	analyzeCmd.MarkFlagRequired("promo-price")
	analyzeCmd.MarkFlagRequired("cogs")
}
