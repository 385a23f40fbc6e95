package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type DatabaseConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"dbname"`
	SSLMode        string        `mapstructure:"sslmode"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type Config struct {
	Seed                 int     `mapstructure:"seed"`
	DefaultBaselineUnits float64 `mapstructure:"default_baseline_units"`

	KafkaEnabled     bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`

	// OutputFormat selects the sink for analysis events: console, csv, json,
	// parquet or postgres. OutputDestination switches parquet delivery
	// between the local filesystem and cloud storage.
	OutputFormat      string `mapstructure:"output_format"`
	OutputPath        string `mapstructure:"output_path"`
	OutputFolder      string `mapstructure:"output_folder"`
	OutputDestination string `mapstructure:"output_destination"`

	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
	Database     DatabaseConfig     `mapstructure:"database"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("default_baseline_units", DefaultBaselineUnits)
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("output_folder", "promolift_output")

	if err := viper.ReadInConfig(); err != nil {
		// a missing default config file is fine, an explicitly named one is not
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}
