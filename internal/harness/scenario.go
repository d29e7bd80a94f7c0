package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/spell/internal/ir"
	"github.com/roach88/spell/internal/spell"
	"github.com/roach88/spell/internal/testutil"
)

// Scenario is a scripted sequence of spell operations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Capacity bounds the journals. Unset fields use the store defaults.
	Capacity *Capacity `yaml:"capacity,omitempty"`

	// Contexts adds or overrides named call contexts.
	Contexts map[string]ir.CallContext `yaml:"contexts,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and the final store.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Capacity mirrors store.Capacities in scenario files.
type Capacity struct {
	Logs           int `yaml:"logs"`
	Mailbox        int `yaml:"mailbox"`
	ErrorParticles int `yaml:"error_particles"`
}

// Step invokes one operation as one call context.
type Step struct {
	// Call is the operation name, e.g. "set_string".
	Call string `yaml:"call"`

	// As names the call context.
	As string `yaml:"as"`

	// Args are the positional operation arguments.
	Args []string `yaml:"args"`

	// Repeat runs the step this many times (default 1). "{i}" in args is
	// replaced by the zero-based iteration index.
	Repeat int `yaml:"repeat,omitempty"`

	// Expect is checked against every iteration. Nil means no check.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the outcome a step must produce.
// Only the fields that are set are checked.
type Expect struct {
	Success       *bool  `yaml:"success,omitempty"`
	Absent        *bool  `yaml:"absent,omitempty"`
	Value         any    `yaml:"value,omitempty"`
	Code          string `yaml:"code,omitempty"`
	ErrorContains string `yaml:"error_contains,omitempty"`
}

// Assertion validates the trace or the final store.
type Assertion struct {
	// Type specifies the assertion type:
	// - "journal_count": journal holds exactly Count units
	// - "trace_count": Call appears Count times in the trace (Code filters failures)
	// - "key_value": get_string of Key returns Value (or is absent when Absent)
	Type string `yaml:"type"`

	Journal string `yaml:"journal,omitempty"`
	Call    string `yaml:"call,omitempty"`
	Code    string `yaml:"code,omitempty"`
	Key     string `yaml:"key,omitempty"`
	Value   string `yaml:"value,omitempty"`
	Absent  bool   `yaml:"absent,omitempty"`
	Count   int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertJournalCount = "journal_count"
	AssertTraceCount   = "trace_count"
	AssertKeyValue     = "key_value"
)

// DefaultContexts returns the predefined call contexts: spell, worker, host
// and outside, all around testutil.TestSpellID.
func DefaultContexts() map[string]ir.CallContext {
	return map[string]ir.CallContext{
		"spell":   testutil.SpellCall(0),
		"worker":  testutil.WorkerCall(),
		"host":    testutil.HostCall(),
		"outside": testutil.OutsideCall(),
	}
}

// contexts returns the predefined contexts merged with the scenario's own.
func (s *Scenario) contexts() map[string]ir.CallContext {
	all := DefaultContexts()
	for name, cc := range s.Contexts {
		all[name] = cc
	}
	return all
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarioFiles lists .yaml/.yml files under dir, optionally filtered by
// a glob on the file name without extension.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	contexts := s.contexts()
	for i, step := range s.Steps {
		if step.Call == "" {
			return fmt.Errorf("steps[%d]: call is required", i)
		}
		if _, ok := spell.Usage(step.Call); !ok {
			return fmt.Errorf("steps[%d]: unknown operation %q", i, step.Call)
		}
		if step.As == "" {
			return fmt.Errorf("steps[%d]: as is required", i)
		}
		if _, ok := contexts[step.As]; !ok {
			return fmt.Errorf("steps[%d]: unknown context %q", i, step.As)
		}
		if step.Repeat < 0 {
			return fmt.Errorf("steps[%d]: repeat must be non-negative", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertJournalCount:
		if a.Journal == "" {
			return fmt.Errorf("assertions[%d]: journal is required for journal_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertTraceCount:
		if a.Call == "" {
			return fmt.Errorf("assertions[%d]: call is required for trace_count", index)
		}
	case AssertKeyValue:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for key_value", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
