// Command boardscan classifies a board image (already reduced to one pixel
// per tile) into the five tile categories and prints the resulting grid,
// one row per line.
package main

import (
	"fmt"
	"os"

	"boardscan"
	"boardscan/internal/seeds"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	flagSwatches       string
	flagCenters        bool
	flagDeltaThreshold float64
	flagMaxIterations  int
	flagVerbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "boardscan <image>",
	Short: "Classify board tile colors into R, G, B, Y, W",
	Long: `Classify board tile colors into R, G, B, Y, W.

The input image must already be reduced to one pixel per board tile
(e.g. a 20x20 image for a 20x20 board). Supported formats: PNG, JPEG, WEBP.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagSwatches, "swatches", "",
		"YAML file overriding the built-in reference swatches (category: [\"#rrggbb\", ...])")
	rootCmd.Flags().BoolVar(&flagCenters, "centers", false,
		"also print the converged cluster centers as hex colors")
	rootCmd.Flags().Float64Var(&flagDeltaThreshold, "delta-threshold", 0,
		"convergence threshold for total squared center movement (0 = default)")
	rootCmd.Flags().IntVar(&flagMaxIterations, "max-iterations", 0,
		"upper bound on refinement iterations (0 = default)")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false,
		"print per-iteration center movement to stderr")
}

func run(path string) error {
	if flagDeltaThreshold < 0 {
		return fmt.Errorf("--delta-threshold must be >= 0, got %v", flagDeltaThreshold)
	}
	if flagMaxIterations < 0 {
		return fmt.Errorf("--max-iterations must be >= 0, got %d", flagMaxIterations)
	}

	opts := boardscan.DefaultOptions()
	if flagDeltaThreshold > 0 {
		opts.DeltaThreshold = flagDeltaThreshold
	}
	if flagMaxIterations > 0 {
		opts.MaxIterations = flagMaxIterations
	}
	if flagVerbose {
		threshold := opts.DeltaThreshold
		iter := 0
		opts.Progress = func(delta float64) bool {
			iter++
			fmt.Fprintf(os.Stderr, "iteration %d: delta=%.6f\n", iter, delta)
			return delta < threshold
		}
	}

	if flagSwatches != "" {
		table, err := loadSwatchFile(flagSwatches)
		if err != nil {
			return fmt.Errorf("reading swatch file: %w", err)
		}
		opts.Swatches = table
	}

	res, err := boardscan.ClassifyFile(path, opts)
	if err != nil {
		return err
	}

	if !res.Converged {
		fmt.Fprintf(os.Stderr, "warning: did not converge within %d iterations\n", res.Iterations)
	}

	for y := range res.Grid {
		fmt.Println(res.Grid.Row(y))
	}

	if flagCenters {
		for i, tag := range boardscan.Tags {
			fmt.Printf("%s %s\n", tag, res.Centers[i].Hex())
		}
	}
	return nil
}

// loadSwatchFile reads a partial swatch override table: a YAML mapping of
// category name to a list of hex colors. Categories absent from the file
// keep the built-in swatches.
func loadSwatchFile(path string) (map[string][]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	table := make(map[string][]string)
	for _, name := range seeds.Names {
		if v.IsSet(name) {
			table[name] = v.GetStringSlice(name)
		}
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("no swatch categories in %s (expected any of %v)", path, seeds.Names)
	}
	return table, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
