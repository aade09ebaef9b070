package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chrisdamba/shelfsim/internal/models"
	"github.com/chrisdamba/shelfsim/internal/repositories/postgres"
	"github.com/chrisdamba/shelfsim/internal/simulator"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shelfsim [orders.json]",
	Short: "Simulates order placement and decay on kitchen shelves",
	Long: `shelfsim replays a file of food orders through a kitchen with hot, cold, frozen
and overflow shelves. Orders arrive in batches every simulated second, decay while
they wait, and are picked up by couriers after a random delay.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			viper.Set("input_file", args[0])
		}

		cfg, err := models.LoadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			logrus.Fatalf("Error loading config: %v", err)
		}

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", cfg.LogLevel)
		}
		logrus.SetLevel(level)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, err := runSimulation(ctx, cfg); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./shelfsim.yaml)")

	rootCmd.Flags().String("input-file", "", "JSON file of orders to ingest")
	rootCmd.Flags().Int64("seed", 0, "Random seed for pickup delays and evictions (0 picks one from the clock)")
	rootCmd.Flags().Int("ingestion-rate", models.DefaultIngestionRate, "Orders ingested per simulated second")
	rootCmd.Flags().Duration("tick-interval", models.DefaultTickInterval, "Wall-clock pause between ticks (0 runs as fast as possible)")
	rootCmd.Flags().String("log-level", "info", "Log verbosity level")
	rootCmd.Flags().Bool("show-progress", false, "Show an ingestion progress bar")
	rootCmd.Flags().Int("min-pickup-delay", models.DefaultMinPickupDelay, "Minimum courier pickup delay in seconds")
	rootCmd.Flags().Int("max-pickup-delay", models.DefaultMaxPickupDelay, "Maximum courier pickup delay in seconds")
	rootCmd.Flags().Int("hot-shelf-capacity", models.DefaultSingleTempShelfCapacity, "Hot shelf capacity")
	rootCmd.Flags().Int("cold-shelf-capacity", models.DefaultSingleTempShelfCapacity, "Cold shelf capacity")
	rootCmd.Flags().Int("frozen-shelf-capacity", models.DefaultSingleTempShelfCapacity, "Frozen shelf capacity")
	rootCmd.Flags().Int("overflow-shelf-capacity", models.DefaultOverflowShelfCapacity, "Overflow shelf capacity")
	rootCmd.Flags().Float64("single-temp-decay-modifier", models.DefaultSingleTempDecayModifier, "Decay modifier on hot, cold and frozen shelves")
	rootCmd.Flags().Float64("overflow-decay-modifier", models.DefaultOverflowDecayModifier, "Decay modifier on the overflow shelf")
	rootCmd.Flags().String("output-format", models.OutputFormatConsole, "Event output format: console, json, csv or parquet")
	rootCmd.Flags().String("output-path", "", "Base directory for file outputs")
	rootCmd.Flags().String("output-folder", "events", "Folder under output-path for event files")
	rootCmd.Flags().String("output-destination", models.OutputDestinationLocal, "Where file outputs go: local or cloud")
	rootCmd.Flags().Bool("kafka-enabled", false, "Publish events to Kafka")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.Flags().String("amqp-url", "", "Publish events to this RabbitMQ server")
	rootCmd.Flags().String("amqp-exchange", models.DefaultAMQPExchange, "RabbitMQ topic exchange")
	rootCmd.Flags().String("database-url", "", "Postgres URL for events and run summaries")
	rootCmd.Flags().String("report-file", "", "Write a YAML run report to this file")

	bindFlags(viper.GetViper(), rootCmd.Flags())

	rootCmd.AddCommand(generateCmd)
}

// bindFlags binds every flag to the viper key spelled with underscores.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			logrus.Warnf("Failed to bind flag %s: %v", f.Name, err)
		}
	})
}

func runSimulation(ctx context.Context, cfg *models.Config) (models.RunSummary, error) {
	if cfg.InputFile == "" {
		return models.RunSummary{}, fmt.Errorf("%w: no input file given", models.ErrInvalidConfig)
	}
	orders, err := models.LoadOrdersFile(cfg.InputFile)
	if err != nil {
		return models.RunSummary{}, err
	}

	out, err := simulator.NewOutputDestination(ctx, cfg)
	if err != nil {
		return models.RunSummary{}, fmt.Errorf("failed to create output destination: %w", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			logrus.Warnf("Error closing output: %v", err)
		}
	}()

	sim := simulator.NewSimulator(cfg, orders, out)
	if err := sim.Run(ctx); err != nil {
		return sim.Summary(), err
	}
	summary := sim.Summary()

	if cfg.ReportFile != "" {
		if err := simulator.SaveReport(ctx, cfg, simulator.NewReport(cfg, summary)); err != nil {
			logrus.Warnf("Failed to save run report: %v", err)
		}
	}
	if cfg.DatabaseURL != "" {
		if err := saveRun(ctx, cfg.DatabaseURL, summary); err != nil {
			logrus.Warnf("Failed to save run summary: %v", err)
		}
	}
	return summary, nil
}

func saveRun(ctx context.Context, databaseURL string, summary models.RunSummary) error {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgres.NewRunRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	return repo.Create(ctx, summary)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
