package cmd

import (
	"fmt"
	"os"

	"github.com/chrisdamba/promolift/internal/factories"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template [file]",
	Short: "Write a sample input file filled with generated promotion data",
	Long: `Generates realistic sample data and writes it to the given file so the
batch and grade commands have something to chew on. Two kinds are
supported: "promotions" (flat, one row per promotion) and "historical"
(relational, one row per product week). The file format is picked from
the extension, .csv or .xlsx. Set --seed for reproducible output.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg.Seed != 0 {
			factories.SeedRng(int64(cfg.Seed))
		}

		kind, _ := cmd.Flags().GetString("kind")
		rows, _ := cmd.Flags().GetInt("rows")
		weeks, _ := cmd.Flags().GetInt("weeks")

		var err error
		switch kind {
		case "promotions":
			factory := &factories.PromotionFactory{}
			err = factories.WritePromotionsFile(args[0], factory.CreatePromotions(cfg, rows))
		case "historical":
			factory := &factories.HistoricalFactory{}
			err = factories.WriteHistoricalFile(args[0], factory.CreateHistoricals(cfg, rows, weeks))
		default:
			err = fmt.Errorf("unknown template kind %q (expected promotions or historical)", kind)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s template with %d products to %s\n", kind, rows, args[0])
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().String("kind", "promotions", "Template kind: promotions or historical")
	templateCmd.Flags().Int("rows", 8, "Number of products to generate")
	templateCmd.Flags().Int("weeks", 4, "Weeks of history per product (historical only)")
}
