// Package report renders scenario outcomes for humans and machines.
//
// The emitter is a thin presentation layer: it consumes the structured
// result records the evaluator produced and never inspects fixtures or
// reruns anything. One record per scenario, in catalog order, plus a
// summary trailer.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/greggers/racelab/internal/harness"
)

// Statuses a single outcome can render as. A faulted or hung run is
// called out separately from plain divergence.
const (
	StatusConsistent = "consistent"
	StatusCorrupted  = "corrupted"
	StatusFaulted    = "faulted"
)

// Summary aggregates one catalog pass.
type Summary struct {
	Outcomes   []harness.Outcome `json:"outcomes"`
	Consistent int               `json:"consistent"`
	Corrupted  int               `json:"corrupted"`
	Faulted    int               `json:"faulted"`
}

// Status classifies one outcome for presentation.
func Status(o harness.Outcome) string {
	switch {
	case o.Consistent:
		return StatusConsistent
	case len(o.Faults) > 0 || o.TimedOut:
		return StatusFaulted
	default:
		return StatusCorrupted
	}
}

// Summarize counts outcomes by status, preserving their order.
func Summarize(outcomes []harness.Outcome) Summary {
	s := Summary{Outcomes: outcomes}
	for _, o := range outcomes {
		switch Status(o) {
		case StatusConsistent:
			s.Consistent++
		case StatusFaulted:
			s.Faulted++
		default:
			s.Corrupted++
		}
	}
	return s
}

// WriteText renders the human-readable report: one block per scenario
// and a summary trailer.
func WriteText(w io.Writer, s Summary) error {
	for _, o := range s.Outcomes {
		expected, err := json.Marshal(o.Expected)
		if err != nil {
			return fmt.Errorf("failed to render expected value: %w", err)
		}
		observed, err := json.Marshal(o.Observed)
		if err != nil {
			return fmt.Errorf("failed to render observed value: %w", err)
		}

		fmt.Fprintf(w, "%-20s %-10s divergence=%s elapsed=%s\n",
			o.Name, Status(o), strconv.FormatFloat(o.Divergence, 'g', -1, 64), o.Elapsed)
		fmt.Fprintf(w, "    expected: %s\n", expected)
		fmt.Fprintf(w, "    observed: %s\n", observed)
		for _, f := range o.Faults {
			fmt.Fprintf(w, "    fault: worker %d: %s\n", f.Worker, f.Message)
		}
		if o.TimedOut {
			fmt.Fprintln(w, "    timed out before the join barrier")
		}
	}

	fmt.Fprintf(w, "\n%d scenarios: %d consistent, %d corrupted, %d faulted\n",
		len(s.Outcomes), s.Consistent, s.Corrupted, s.Faulted)
	return nil
}

// WriteJSON renders the full summary as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
