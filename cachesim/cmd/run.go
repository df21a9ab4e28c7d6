package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muditbhargava66/CacheSimulator-sub000/datarecording"
	"github.com/muditbhargava66/CacheSimulator-sub000/monitoring"
	"github.com/muditbhargava66/CacheSimulator-sub000/trace"
)

type runOptions struct {
	record     bool
	recordPath string

	monitor     bool
	monitorPort int
	openBrowser bool

	seed    int64
	seedSet bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a trace file against a cache hierarchy.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, opts, tracePath, err := gatherRunConfig(cmd)
		if err != nil {
			return err
		}

		return runSimulation(cfg, tracePath, opts)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("config", "", "JSON configuration file")
	runCmd.Flags().String("trace", "", "trace file to replay")

	runCmd.Flags().Uint64("l1-size", 0, "L1 capacity in bytes")
	runCmd.Flags().Int("l1-assoc", 0, "L1 way associativity")
	runCmd.Flags().Uint64("l2-size", 0, "L2 capacity in bytes, 0 disables L2")
	runCmd.Flags().Int("l2-assoc", 0, "L2 way associativity")
	runCmd.Flags().Uint64("block-size", 0, "block size in bytes")
	runCmd.Flags().String("policy", "",
		"replacement policy: lru, fifo, random, plru, nru")
	runCmd.Flags().String("write-policy", "",
		"write policy: writeBack or writeThrough")

	runCmd.Flags().Bool("prefetch", false, "enable L1 prefetching")
	runCmd.Flags().Int("prefetch-distance", 0,
		"stream buffer lookahead in blocks")
	runCmd.Flags().Int("stride-table-size", 0, "stride predictor table size")
	runCmd.Flags().Bool("adaptive", false, "enable adaptive prefetching")

	runCmd.Flags().Bool("record", false,
		"record accesses and results into a SQLite database")
	runCmd.Flags().String("record-db", "",
		"file name of the recording database")
	runCmd.Flags().Bool("monitor", false, "serve live statistics over HTTP")
	runCmd.Flags().Int("monitor-port", 0, "port of the monitoring server")
	runCmd.Flags().Bool("open-browser", false,
		"open the monitoring page in a browser")
	runCmd.Flags().Int64("seed", 0,
		"seed for random replacement, for reproducible runs")
}

func gatherRunConfig(cmd *cobra.Command) (
	Config, runOptions, string, error,
) {
	cfg := DefaultConfig()

	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return cfg, runOptions{}, "", err
		}
		cfg = loaded
	}

	cfg.applyEnv()
	overlayFlags(cmd, &cfg)

	tracePath, _ := cmd.Flags().GetString("trace")
	if tracePath == "" {
		return cfg, runOptions{}, "", fmt.Errorf("a trace file is required")
	}

	opts := runOptions{}
	opts.record, _ = cmd.Flags().GetBool("record")
	opts.recordPath, _ = cmd.Flags().GetString("record-db")
	opts.monitor, _ = cmd.Flags().GetBool("monitor")
	opts.monitorPort, _ = cmd.Flags().GetInt("monitor-port")
	opts.openBrowser, _ = cmd.Flags().GetBool("open-browser")
	if cmd.Flags().Changed("seed") {
		opts.seed, _ = cmd.Flags().GetInt64("seed")
		opts.seedSet = true
	}

	return cfg, opts, tracePath, nil
}

func overlayFlags(cmd *cobra.Command, cfg *Config) {
	if cmd.Flags().Changed("l1-size") {
		cfg.L1Size, _ = cmd.Flags().GetUint64("l1-size")
	}
	if cmd.Flags().Changed("l1-assoc") {
		cfg.L1Assoc, _ = cmd.Flags().GetInt("l1-assoc")
	}
	if cmd.Flags().Changed("l2-size") {
		cfg.L2Size, _ = cmd.Flags().GetUint64("l2-size")
	}
	if cmd.Flags().Changed("l2-assoc") {
		cfg.L2Assoc, _ = cmd.Flags().GetInt("l2-assoc")
	}
	if cmd.Flags().Changed("block-size") {
		cfg.BlockSize, _ = cmd.Flags().GetUint64("block-size")
	}
	if cmd.Flags().Changed("policy") {
		cfg.ReplacementPolicy, _ = cmd.Flags().GetString("policy")
	}
	if cmd.Flags().Changed("write-policy") {
		cfg.WritePolicy, _ = cmd.Flags().GetString("write-policy")
	}
	if cmd.Flags().Changed("prefetch") {
		cfg.PrefetchEnabled, _ = cmd.Flags().GetBool("prefetch")
	}
	if cmd.Flags().Changed("prefetch-distance") {
		cfg.PrefetchDistance, _ = cmd.Flags().GetInt("prefetch-distance")
	}
	if cmd.Flags().Changed("stride-table-size") {
		cfg.StrideTableSize, _ = cmd.Flags().GetInt("stride-table-size")
	}
	if cmd.Flags().Changed("adaptive") {
		cfg.UseAdaptivePrefetching, _ = cmd.Flags().GetBool("adaptive")
	}
}

// runSimulation builds the hierarchy, replays the trace, and reports.
func runSimulation(cfg Config, tracePath string, opts runOptions) error {
	h, err := buildHierarchy(cfg, opts.seed, opts.seedSet)
	if err != nil {
		return err
	}

	accesses, parseErrs, err := trace.ReadFile(tracePath)
	if err != nil {
		return fmt.Errorf("cannot read trace file: %w", err)
	}

	for _, parseErr := range parseErrs {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", parseErr.Error())
	}

	var simLog *datarecording.SimLog
	if opts.record {
		simLog = datarecording.NewSimLog(datarecording.New(opts.recordPath))
	}

	var bar *monitoring.ProgressBar
	var monitor *monitoring.Monitor
	if opts.monitor {
		monitor = monitoring.NewMonitor()
		if opts.monitorPort > 0 {
			monitor = monitor.WithPortNumber(opts.monitorPort)
		}
		monitor.RegisterHierarchy(h)
		monitor.StartServer(opts.openBrowser)

		bar = monitor.CreateProgressBar(tracePath, uint64(len(accesses)))
	}

	for _, access := range accesses {
		hit := h.Access(access.Address, access.IsWrite)

		if simLog != nil {
			simLog.RecordAccess(access.Address, access.IsWrite, hit)
		}
		if bar != nil {
			bar.IncrementFinished(1)
		}
	}

	if bar != nil {
		monitor.CompleteProgressBar(bar)
	}

	if simLog != nil {
		simLog.RecordFinalStats(h)
	}

	if len(parseErrs) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d malformed trace lines\n",
			len(parseErrs))
	}

	writeReport(os.Stdout, h)

	return nil
}
