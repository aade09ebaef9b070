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
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type Config struct {
	Seed          int64         `mapstructure:"seed"`
	InputFile     string        `mapstructure:"input_file"`
	IngestionRate int           `mapstructure:"ingestion_rate"`
	TickInterval  time.Duration `mapstructure:"tick_interval"` // wall-clock pacing between ticks, 0 disables
	LogLevel      string        `mapstructure:"log_level"`
	ShowProgress  bool          `mapstructure:"show_progress"`

	// courier pickup delay bounds in seconds, inclusive
	MinPickupDelay int `mapstructure:"min_pickup_delay"`
	MaxPickupDelay int `mapstructure:"max_pickup_delay"`

	HotShelfCapacity        int     `mapstructure:"hot_shelf_capacity"`
	ColdShelfCapacity       int     `mapstructure:"cold_shelf_capacity"`
	FrozenShelfCapacity     int     `mapstructure:"frozen_shelf_capacity"`
	OverflowShelfCapacity   int     `mapstructure:"overflow_shelf_capacity"`
	SingleTempDecayModifier float64 `mapstructure:"single_temp_decay_modifier"`
	OverflowDecayModifier   float64 `mapstructure:"overflow_decay_modifier"`

	OutputFormat      string             `mapstructure:"output_format"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	KafkaEnabled     bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`

	AMQPURL      string `mapstructure:"amqp_url"`
	AMQPExchange string `mapstructure:"amqp_exchange"`

	DatabaseURL string `mapstructure:"database_url"`
	ReportFile  string `mapstructure:"report_file"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ingestion_rate", DefaultIngestionRate)
	v.SetDefault("tick_interval", DefaultTickInterval)
	v.SetDefault("log_level", "info")
	v.SetDefault("min_pickup_delay", DefaultMinPickupDelay)
	v.SetDefault("max_pickup_delay", DefaultMaxPickupDelay)
	v.SetDefault("hot_shelf_capacity", DefaultSingleTempShelfCapacity)
	v.SetDefault("cold_shelf_capacity", DefaultSingleTempShelfCapacity)
	v.SetDefault("frozen_shelf_capacity", DefaultSingleTempShelfCapacity)
	v.SetDefault("overflow_shelf_capacity", DefaultOverflowShelfCapacity)
	v.SetDefault("single_temp_decay_modifier", DefaultSingleTempDecayModifier)
	v.SetDefault("overflow_decay_modifier", DefaultOverflowDecayModifier)
	v.SetDefault("output_format", OutputFormatConsole)
	v.SetDefault("output_folder", "events")
	v.SetDefault("output_destination", OutputDestinationLocal)
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("amqp_exchange", DefaultAMQPExchange)
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := decodeConfig(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// config file is only an error when cfgFile was given explicitly.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("shelfsim")
	}

	v.SetEnvPrefix("shelfsim")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := decodeConfig(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &config, nil
}

// Validate checks the values the kitchen and driver depend on.
func (cfg *Config) Validate() error {
	switch {
	case cfg.IngestionRate < 1:
		return fmt.Errorf("%w: ingestion_rate must be at least 1, got %d", ErrInvalidConfig, cfg.IngestionRate)
	case cfg.TickInterval < 0:
		return fmt.Errorf("%w: tick_interval must not be negative", ErrInvalidConfig)
	case cfg.MinPickupDelay < 0:
		return fmt.Errorf("%w: min_pickup_delay must not be negative", ErrInvalidConfig)
	case cfg.MaxPickupDelay < cfg.MinPickupDelay:
		return fmt.Errorf("%w: max_pickup_delay %d is below min_pickup_delay %d", ErrInvalidConfig, cfg.MaxPickupDelay, cfg.MinPickupDelay)
	case cfg.HotShelfCapacity < 0, cfg.ColdShelfCapacity < 0, cfg.FrozenShelfCapacity < 0:
		return fmt.Errorf("%w: shelf capacities must not be negative", ErrInvalidConfig)
	case cfg.OverflowShelfCapacity < 1:
		return fmt.Errorf("%w: overflow_shelf_capacity must be at least 1", ErrInvalidConfig)
	case cfg.SingleTempDecayModifier < 0, cfg.OverflowDecayModifier < 0:
		return fmt.Errorf("%w: decay modifiers must not be negative", ErrInvalidConfig)
	}

	switch cfg.OutputFormat {
	case OutputFormatConsole, OutputFormatJSON, OutputFormatCSV, OutputFormatParquet:
	default:
		return fmt.Errorf("%w: unsupported output format %q", ErrInvalidConfig, cfg.OutputFormat)
	}
	return nil
}
