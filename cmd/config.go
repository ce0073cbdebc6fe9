package cmd

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/memsim/sim"
)

// loadRunConfig parses a run-config file on top of the default config,
// so omitted fields keep their defaults.
// Uses strict field checking: typos must cause errors.
func loadRunConfig(path string) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading run config")
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing run config %s", path)
	}
	return cfg, nil
}

// applyFlagOverrides copies every explicitly set flag into cfg.
// Flags left at their defaults never overwrite file values.
func applyFlagOverrides(cmd *cobra.Command, cfg *sim.SimConfig) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("capacity") {
		cfg.Capacity = capacity
	}
	if flags.Changed("budget") {
		cfg.Budget = budget
	}
	if flags.Changed("snapshot-every") {
		cfg.SnapshotEvery = snapshotEvery
	}
	if flags.Changed("trace-releases") {
		cfg.TraceReleases = traceReleases
	}
	if flags.Changed("strict-release") {
		cfg.StrictRelease = strictRelease
	}
	if flags.Changed("check-invariants") {
		cfg.CheckInvariants = checkInvariants
	}
	if flags.Changed("workload-script") {
		cfg.Workload.Script = workloadScript
	}
}
