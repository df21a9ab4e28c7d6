// Package cmd provides the command-line interface of the cache simulator.
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// For compatibility with older tooling it also accepts the legacy
// positional form:
//
//	cachesim <block_size> <l1_size> <l1_assoc> <l2_size> <l2_assoc> \
//	         <prefetch_flag> <prefetch_distance> <trace_file>
var rootCmd = &cobra.Command{
	Use:   "cachesim",
	Short: "cachesim simulates a multi-level CPU cache hierarchy over a trace.",
	Long: `cachesim replays a memory access trace against a configurable ` +
		`two-level cache hierarchy and reports hits, misses, miss classes, ` +
		`writebacks, prefetcher behavior, and MESI transitions.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		if len(args) != 8 {
			return fmt.Errorf(
				"legacy form needs 8 arguments, got %d; see --help", len(args))
		}

		return runLegacy(args)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// runLegacy maps the positional form onto the run command.
func runLegacy(args []string) error {
	numbers := make([]int64, 7)
	for i := 0; i < 7; i++ {
		n, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return fmt.Errorf("argument %d (%q) is not a number", i+1, args[i])
		}
		numbers[i] = n
	}

	if anyNegative(numbers) {
		return fmt.Errorf("legacy arguments must not be negative")
	}

	cfg := DefaultConfig()
	cfg.BlockSize = uint64(numbers[0])
	cfg.L1Size = uint64(numbers[1])
	cfg.L1Assoc = int(numbers[2])
	cfg.L2Size = uint64(numbers[3])
	cfg.L2Assoc = int(numbers[4])
	cfg.PrefetchEnabled = numbers[5] > 0
	cfg.PrefetchDistance = int(numbers[6])

	return runSimulation(cfg, args[7], runOptions{})
}

func anyNegative(numbers []int64) bool {
	for _, n := range numbers {
		if n < 0 {
			return true
		}
	}

	return false
}
