package cmd

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/memsim/sim"
	"github.com/inference-sim/memsim/sim/trace"
	"github.com/inference-sim/memsim/sim/workload"
)

// Process exit codes of the run command.
const (
	exitSuccess     = 0
	exitError       = 1
	exitOutOfMemory = 2
	exitDrained     = 3
)

var (
	// CLI flags; each overrides the config file only when set explicitly
	configPath      string // YAML run-config file
	seed            int64  // Master seed for the workload RNG
	capacity        int    // Words in the simulated address space
	budget          int    // Successful allocations before the run ends
	snapshotEvery   int    // Allocations between statistics snapshots
	traceReleases   int    // Trace events until this many releases
	strictRelease   bool   // Verify release addresses with a heap walk
	checkInvariants bool   // Run the heap checker after every event
	workloadScript  string // YAML file of scripted request parameters
	outputFormat    string // text or json
	logLevel        string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "Discrete-event simulator for a boundary-tag memory allocator",
}

// runReporter is what the run command needs from an output format.
type runReporter interface {
	sim.Reporter
	PrintTrace(*trace.SimulationTrace) error
	PrintOutOfMemory(*sim.OutOfMemoryReport) error
}

// runCmd executes the simulation using the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the allocator simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		code, err := runSimulation(cmd, os.Stdout)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if code != exitSuccess {
			os.Exit(code)
		}
	},
}

// runSimulation builds and runs one simulation, writing reports to out.
// It returns the process exit code; a non-nil error means exitError.
func runSimulation(cmd *cobra.Command, out io.Writer) (int, error) {
	cfg := sim.DefaultSimConfig()
	if configPath != "" {
		var err error
		if cfg, err = loadRunConfig(configPath); err != nil {
			return exitError, err
		}
	}
	applyFlagOverrides(cmd, &cfg)

	reporter, err := newReporter(outputFormat, out)
	if err != nil {
		return exitError, err
	}
	src, err := workload.NewSource(cfg)
	if err != nil {
		return exitError, errors.Wrap(err, "building workload")
	}
	s, err := sim.NewSimulator(cfg, src, reporter)
	if err != nil {
		return exitError, err
	}

	logrus.Infof("Starting simulation with %d words, budget=%d, seed=%d", cfg.Capacity, cfg.Budget, cfg.Seed)
	if err := s.Run(); err != nil {
		return exitError, err
	}

	if err := reporter.PrintTrace(s.Trace); err != nil {
		return exitError, err
	}
	if s.Trace != nil {
		sum := trace.Summarize(s.Trace)
		logrus.Infof("Trace: %d events (%d allocations, %d releases), mean request %.1f, largest %d, %d not recorded",
			sum.TotalEvents, sum.Allocations, sum.Releases, sum.MeanRequestSize, sum.MaxRequestSize, sum.Dropped)
	}

	switch s.State {
	case sim.StateOutOfMemory:
		if err := reporter.PrintOutOfMemory(s.OutOfMemory); err != nil {
			return exitError, err
		}
		return exitOutOfMemory, nil
	case sim.StateDrained:
		return exitDrained, nil
	}

	st, err := sim.ComputeStatistics(s.Heap, s.Clock, s.Allocations, s.Releases)
	if err != nil {
		return exitError, err
	}
	if err := reporter.Report(st); err != nil {
		return exitError, err
	}
	logrus.Info("Simulation complete.")
	return exitSuccess, nil
}

func newReporter(format string, out io.Writer) (runReporter, error) {
	switch format {
	case "text":
		return sim.NewTextReporter(out), nil
	case "json":
		return sim.NewJSONReporter(out), nil
	}
	return nil, errors.Newf("unknown output format %q (want text or json)", format)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitError)
	}
}

// registerRunFlags binds the run flags of c to the package flag variables.
func registerRunFlags(c *cobra.Command) {
	defaults := sim.DefaultSimConfig()

	c.Flags().StringVar(&configPath, "config", "", "Path to a YAML run-config file")
	c.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for the workload generator")
	c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	c.Flags().StringVar(&outputFormat, "output", "text", "Report format (text, json)")

	// Heap and run length
	c.Flags().IntVar(&capacity, "capacity", defaults.Capacity, "Words in the simulated address space")
	c.Flags().IntVar(&budget, "budget", defaults.Budget, "Successful allocations before the run ends")
	c.Flags().IntVar(&snapshotEvery, "snapshot-every", defaults.SnapshotEvery, "Allocations between statistics snapshots (0 = never)")
	c.Flags().IntVar(&traceReleases, "trace-releases", defaults.TraceReleases, "Record and print events until this many releases (0 = off)")
	c.Flags().BoolVar(&strictRelease, "strict-release", defaults.StrictRelease, "Verify release addresses with a heap walk")
	c.Flags().BoolVar(&checkInvariants, "check-invariants", defaults.CheckInvariants, "Check heap invariants after every event")

	// Workload
	c.Flags().StringVar(&workloadScript, "workload-script", "", "YAML file of scripted request parameters")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
