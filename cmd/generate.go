package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/shelfsim/internal/factories"
)

var (
	generateCount int
	generateOut   string
	generateSeed  int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a JSON file of random orders",
	Run: func(cmd *cobra.Command, args []string) {
		seed := generateSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		var w io.Writer = os.Stdout
		if generateOut != "" {
			f, err := os.Create(generateOut)
			if err != nil {
				logrus.Fatalf("Failed to create %s: %v", generateOut, err)
			}
			defer f.Close()
			w = f
		}

		if err := writeOrders(w, generateCount, seed); err != nil {
			logrus.Fatalf("Failed to generate orders: %v", err)
		}
		if generateOut != "" {
			logrus.Infof("Wrote %d orders to %s (seed %d)", generateCount, generateOut, seed)
		}
	},
}

func init() {
	generateCmd.Flags().IntVar(&generateCount, "count", 100, "Number of orders to generate")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Output file (default stdout)")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "Random seed (0 picks one from the clock)")
}

func writeOrders(w io.Writer, count int, seed int64) error {
	if count < 0 {
		return fmt.Errorf("count must not be negative, got %d", count)
	}
	records := factories.NewOrderFactory(seed).CreateOrders(count)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
