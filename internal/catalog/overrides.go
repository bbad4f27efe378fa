package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overrides maps scenario names to parameter overrides.
//
// The file format is a YAML mapping:
//
//	counter:
//	  workers: 4
//	  ops: 50000
//	false-sharing:
//	  ops: 2000000
//	  trials: 9
//	stack-aba:
//	  delay: 20ms
//	  timeout: 2s
type Overrides map[string]Params

// LoadOverrides reads and validates a parameter overrides file. Unknown
// scenario names and unknown fields are rejected rather than silently
// ignored.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var overrides Overrides
	if err := dec.Decode(&overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}

	for name, p := range overrides {
		if _, err := Lookup(name); err != nil {
			return nil, fmt.Errorf("overrides file %s: %w", path, err)
		}
		if p.Workers < 0 || p.Ops < 0 || p.Trials < 0 || p.Delay < 0 || p.Timeout < 0 {
			return nil, fmt.Errorf("overrides file %s: scenario %q: negative values are not allowed", path, name)
		}
	}
	return overrides, nil
}

// For returns the overrides recorded for a scenario, or zero params.
func (o Overrides) For(name string) Params {
	return o[name]
}
