package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/queue-sim/sim/trace"
)

// RunBundle holds run configuration, loadable from a YAML file.
// String fields use empty string for "not set"; nil pointer fields mean "not set in YAML".
// Neither overrides the caller's defaults.
type RunBundle struct {
	Discipline string       `yaml:"discipline"`
	Sort       string       `yaml:"sort"`
	Trace      string       `yaml:"trace"`
	Undo       *bool        `yaml:"undo"`
	Report     ReportConfig `yaml:"report"`
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	Output     string `yaml:"output"`
	TopWaiters *int   `yaml:"top_waiters"`
}

// LoadRunBundle reads and strictly parses a YAML run configuration file.
// Unknown keys are rejected.
func LoadRunBundle(path string) (*RunBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var bundle RunBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &bundle, nil
}

// Validate checks that all names and parameter ranges in the bundle are valid.
func (b *RunBundle) Validate() error {
	if !IsValidDiscipline(b.Discipline) {
		return fmt.Errorf("unknown discipline %q", b.Discipline)
	}
	if !IsValidSortAlgorithm(b.Sort) {
		return fmt.Errorf("unknown sort algorithm %q", b.Sort)
	}
	if !trace.IsValidTraceLevel(b.Trace) {
		return fmt.Errorf("unknown trace level %q", b.Trace)
	}
	if b.Report.TopWaiters != nil && *b.Report.TopWaiters < 0 {
		return fmt.Errorf("top_waiters must be non-negative, got %d", *b.Report.TopWaiters)
	}
	return nil
}

// ApplyTo overwrites the fields of cfg that the bundle sets.
func (b *RunBundle) ApplyTo(cfg *SimConfig) {
	if b.Discipline != "" {
		cfg.Discipline = b.Discipline
	}
	if b.Sort != "" {
		cfg.SortAlgorithm = SortAlgorithm(b.Sort)
	}
	if b.Trace != "" {
		cfg.Trace.Level = trace.TraceLevel(b.Trace)
	}
	if b.Undo != nil {
		cfg.RecordHistory = *b.Undo
	}
}
