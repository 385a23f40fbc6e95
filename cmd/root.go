package cmd

import (
	"fmt"
	"os"

	"github.com/chrisdamba/promolift/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "promolift",
	Short: "Analyzes trade promotion profitability for retail products",
	Long: `promolift is a CLI tool for retail and CPG analysts: it computes unit
margins and breakeven sales lifts for planned promotions, projects profit
across lift scenarios, and grades finished promotions against their actual
weekly sales volumes.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.PersistentFlags().Int("seed", 0, "Random seed for sample data generation")
	rootCmd.PersistentFlags().Float64("default-baseline-units", models.DefaultBaselineUnits, "Baseline units assumed when a record omits its own")
	rootCmd.PersistentFlags().Bool("kafka-enabled", false, "Publish analysis events to Kafka")
	rootCmd.PersistentFlags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.PersistentFlags().String("output-format", "", "Event output format: csv, json, parquet or postgres")
	rootCmd.PersistentFlags().String("output-path", "", "Base path for file output (console output if empty)")
	rootCmd.PersistentFlags().String("output-folder", "promolift_output", "Folder name under the output path")
	rootCmd.PersistentFlags().String("output-destination", "local", "Parquet destination: local or s3")

	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	viper.BindPFlag("default_baseline_units", rootCmd.PersistentFlags().Lookup("default-baseline-units"))
	viper.BindPFlag("kafka_enabled", rootCmd.PersistentFlags().Lookup("kafka-enabled"))
	viper.BindPFlag("kafka_broker_list", rootCmd.PersistentFlags().Lookup("kafka-broker-list"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output-format"))
	viper.BindPFlag("output_path", rootCmd.PersistentFlags().Lookup("output-path"))
	viper.BindPFlag("output_folder", rootCmd.PersistentFlags().Lookup("output-folder"))
	viper.BindPFlag("output_destination", rootCmd.PersistentFlags().Lookup("output-destination"))
}

func initConfig() {
	viper.AutomaticEnv()
}

func loadConfig() *models.Config {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
