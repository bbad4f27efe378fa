package catalog

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/greggers/racelab/internal/harness"
)

// Duration wraps time.Duration so YAML overrides can use Go duration
// strings ("100ms", "2s").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"100ms\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Params are the knobs a caller can override per scenario. A zero field
// means "use the scenario's default".
type Params struct {
	// Workers is the number of concurrent tasks. Scenarios with a fixed
	// asymmetric topology (publication, ABA, false sharing) ignore it.
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`

	// Ops is the iteration count per worker.
	Ops int `yaml:"ops,omitempty" json:"ops,omitempty"`

	// Trials is the repetition count for the timing scenario; the
	// reported metric is the median across trials.
	Trials int `yaml:"trials,omitempty" json:"trials,omitempty"`

	// Delay is the scripted delay unit for the interleaving-sensitive
	// scenarios.
	Delay Duration `yaml:"delay,omitempty" json:"delay,omitempty"`

	// Timeout bounds the scenario's wall time.
	Timeout Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Merge returns p with zero fields filled from fallback. Chained merges
// express precedence: flags over file overrides over scenario defaults.
func (p Params) Merge(fallback Params) Params {
	if p.Workers == 0 {
		p.Workers = fallback.Workers
	}
	if p.Ops == 0 {
		p.Ops = fallback.Ops
	}
	if p.Trials == 0 {
		p.Trials = fallback.Trials
	}
	if p.Delay == 0 {
		p.Delay = fallback.Delay
	}
	if p.Timeout == 0 {
		p.Timeout = fallback.Timeout
	}
	return p
}

// validate rejects parameter sets the runner would refuse anyway, before
// any goroutine starts.
func (p Params) validate() error {
	if p.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", harness.ErrConfig, p.Workers)
	}
	if p.Ops < 1 {
		return fmt.Errorf("%w: ops must be >= 1, got %d", harness.ErrConfig, p.Ops)
	}
	if p.Trials < 1 {
		return fmt.Errorf("%w: trials must be >= 1, got %d", harness.ErrConfig, p.Trials)
	}
	if p.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative", harness.ErrConfig)
	}
	return nil
}

func (p Params) delay() time.Duration {
	return time.Duration(p.Delay)
}

func (p Params) timeout() time.Duration {
	return time.Duration(p.Timeout)
}
