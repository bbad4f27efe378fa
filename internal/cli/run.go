package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/greggers/racelab/internal/catalog"
	"github.com/greggers/racelab/internal/harness"
	"github.com/greggers/racelab/internal/report"
	"github.com/greggers/racelab/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Workers       int
	Ops           int
	Trials        int
	Delay         time.Duration
	Timeout       time.Duration
	OverridesPath string
	Database      string
	FailOnHazard  bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "Run hazard scenarios and report the damage",
		Long: `Run one scenario by name, or the whole catalog when no name is given.

Each scenario computes its race-free expected state, executes the
workload concurrently, and reports whether the observed state diverged.
Flags override per-scenario parameters for every scenario they apply
to; a YAML overrides file can tune scenarios individually.

Example:
  racelab run
  racelab run counter --workers 20 --ops 5000
  racelab run stack-aba --delay 10ms --db ./runs.db
  racelab run --overrides tuning.yaml --fail-on-hazard`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "worker count override (0 = scenario default)")
	cmd.Flags().IntVar(&opts.Ops, "ops", 0, "per-worker operation count override (0 = scenario default)")
	cmd.Flags().IntVar(&opts.Trials, "trials", 0, "trial count override for timing scenarios (0 = scenario default)")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "interleaving delay override (0 = scenario default)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "scenario timeout override (0 = scenario default)")
	cmd.Flags().StringVar(&opts.OverridesPath, "overrides", "", "path to YAML per-scenario overrides")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for run history (optional)")
	cmd.Flags().BoolVar(&opts.FailOnHazard, "fail-on-hazard", false, "exit nonzero if any scenario corrupts, faults, or times out")

	return cmd
}

func runScenarios(opts *RunOptions, args []string, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	scenarios := catalog.Catalog()
	if len(args) == 1 {
		s, err := catalog.Lookup(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "unknown scenario", err)
		}
		scenarios = []catalog.Scenario{s}
	}

	var overrides catalog.Overrides
	if opts.OverridesPath != "" {
		var err error
		overrides, err = catalog.LoadOverrides(opts.OverridesPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load overrides", err)
		}
		slog.Debug("overrides loaded", "path", opts.OverridesPath, "scenarios", len(overrides))
	}

	var st *store.Store
	if opts.Database != "" {
		var err error
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
	}

	flagParams := catalog.Params{
		Workers: opts.Workers,
		Ops:     opts.Ops,
		Trials:  opts.Trials,
		Delay:   catalog.Duration(opts.Delay),
		Timeout: catalog.Duration(opts.Timeout),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	outcomes := make([]harness.Outcome, 0, len(scenarios))
	for _, s := range scenarios {
		// Flags win over the overrides file; scenario defaults fill the rest
		// inside Run.
		p := flagParams.Merge(overrides.For(s.Name))

		outcome, err := s.Run(ctx, p, slog.Default())
		if err != nil {
			if errors.Is(err, harness.ErrConfig) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s rejected parameters", s.Name), err)
			}
			return WrapExitError(ExitFailure, fmt.Sprintf("scenario %s failed", s.Name), err)
		}
		slog.Info("scenario finished",
			"scenario", s.Name,
			"consistent", outcome.Consistent,
			"divergence", outcome.Divergence,
			"elapsed", outcome.Elapsed,
			"faults", len(outcome.Faults))

		if st != nil {
			id, err := st.WriteOutcome(ctx, outcome, p)
			if err != nil {
				return WrapExitError(ExitFailure, fmt.Sprintf("failed to record scenario %s", s.Name), err)
			}
			slog.Debug("outcome recorded", "scenario", s.Name, "run_id", id)
		}
		outcomes = append(outcomes, outcome)
	}

	summary := report.Summarize(outcomes)
	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := report.WriteJSON(out, summary); err != nil {
			return WrapExitError(ExitFailure, "failed to write report", err)
		}
	} else {
		if err := report.WriteText(out, summary); err != nil {
			return WrapExitError(ExitFailure, "failed to write report", err)
		}
	}

	if opts.FailOnHazard && (summary.Corrupted > 0 || summary.Faulted > 0) {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%d of %d scenarios diverged from their race-free expectation",
				summary.Corrupted+summary.Faulted, len(summary.Outcomes)))
	}
	return nil
}
