package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/greggers/racelab/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [scenario]",
		Short: "Show recorded runs from a results database",
		Long: `Show the most recent recorded runs, newest first. With a scenario
name, the listing is filtered to that scenario and a corruption rate is
reported across its full recorded history.

Example:
  racelab history --db ./runs.db
  racelab history counter --db ./runs.db --limit 50`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario := ""
			if len(args) == 1 {
				scenario = args[0]
			}
			return showHistory(opts, scenario, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to show")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func showHistory(opts *HistoryOptions, scenario string, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	records, err := st.Recent(ctx, scenario, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read history", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "no recorded runs")
		return nil
	}
	for _, r := range records {
		status := "consistent"
		if !r.Consistent {
			status = "corrupted"
		}
		fmt.Fprintf(out, "%s  %-20s %-10s divergence=%g elapsed=%s\n",
			r.CreatedAt.Format(time.RFC3339), r.Scenario, status, r.Divergence, r.Elapsed)
	}

	if scenario != "" {
		corrupted, total, err := st.CorruptionRate(ctx, scenario)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to compute corruption rate", err)
		}
		if total > 0 {
			fmt.Fprintf(out, "\n%s: corrupted %d of %d recorded runs (%.1f%%)\n",
				scenario, corrupted, total, 100*float64(corrupted)/float64(total))
		}
	}
	return nil
}
