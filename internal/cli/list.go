package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greggers/racelab/internal/catalog"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog scenarios and their default parameters",
		Long: `List every scenario in the catalog, in execution order, with its
description and default parameters.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listScenarios(rootOpts, cmd)
		},
	}
	return cmd
}

// scenarioInfo is the JSON shape for one list entry.
type scenarioInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Defaults    catalog.Params `json:"defaults"`
}

func listScenarios(opts *RootOptions, cmd *cobra.Command) error {
	scenarios := catalog.Catalog()
	out := cmd.OutOrStdout()

	if opts.Format == "json" {
		infos := make([]scenarioInfo, 0, len(scenarios))
		for _, s := range scenarios {
			infos = append(infos, scenarioInfo{Name: s.Name, Description: s.Description, Defaults: s.Defaults})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	for _, s := range scenarios {
		fmt.Fprintf(out, "%-18s %s\n", s.Name, s.Description)
		fmt.Fprintf(out, "%-18s defaults: %s\n", "", formatDefaults(s.Defaults))
	}
	return nil
}

func formatDefaults(p catalog.Params) string {
	out := fmt.Sprintf("workers=%d ops=%d trials=%d", p.Workers, p.Ops, p.Trials)
	if p.Delay != 0 {
		out += fmt.Sprintf(" delay=%s", time.Duration(p.Delay))
	}
	if p.Timeout != 0 {
		out += fmt.Sprintf(" timeout=%s", time.Duration(p.Timeout))
	}
	return out
}
