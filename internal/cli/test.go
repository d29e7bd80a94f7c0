package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/spell/internal/harness"
	"github.com/roach88/spell/internal/logging"
)

// Golden file states reported per scenario.
const (
	GoldenNone     = "none"
	GoldenMatch    = "match"
	GoldenMismatch = "mismatch"
	GoldenUpdated  = "updated"
)

// ScenarioReport is the outcome of one scenario file.
type ScenarioReport struct {
	File   string   `json:"file"`
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden"`
	Errors []string `json:"errors,omitempty"`
}

// TestSummary aggregates a test run.
type TestSummary struct {
	Scenarios []ScenarioReport `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
}

// Total is the number of scenarios run.
func (s TestSummary) Total() int { return s.Passed + s.Failed }

type testFlags struct {
	update bool
	filter string
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	var flags testFlags

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run harness scenarios",
		Long: `Run scenario files against fresh in-memory stores.

Step expectations and assertions are checked for every scenario. When
<scenarios-dir>/golden/<file>.golden exists the trace must match it too;
--update rewrites those files from the current traces.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing directory, bad filter)

Examples:
  spell test ./scenarios
  spell test ./scenarios --filter "relay_*"
  spell test ./scenarios --update`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTestSuite(rootOpts, flags, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&flags.update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&flags.filter, "filter", "", "only run scenarios whose file name matches this glob")

	return cmd
}

func runTestSuite(opts *RootOptions, flags testFlags, dir string, cmd *cobra.Command) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}

	files, err := harness.FindScenarioFiles(dir, flags.filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	var runOpts []harness.Option
	if opts.Verbose {
		logging.Init(logging.Config{Level: logging.DebugLevel, JSONOutput: opts.LogJSON, Output: cmd.ErrOrStderr()})
		runOpts = append(runOpts, harness.WithLogger(logging.WithComponent("harness")))
	}

	w := cmd.OutOrStdout()
	text := opts.Format != "json"

	summary := TestSummary{Scenarios: []ScenarioReport{}}
	for _, file := range files {
		report := runScenarioFile(file, flags.update, runOpts)
		if report.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Scenarios = append(summary.Scenarios, report)
		if text {
			printReport(w, report)
		}
	}

	if text {
		printSummary(w, summary)
	} else {
		f := &OutputFormatter{Format: opts.Format, Writer: w}
		if summary.Failed > 0 {
			if err := f.Error("E_TEST_FAILED", fmt.Sprintf("%d scenario(s) failed", summary.Failed), summary); err != nil {
				return err
			}
		} else if err := f.Success(summary); err != nil {
			return err
		}
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", summary.Failed, summary.Total()))
	}
	return nil
}

// runScenarioFile loads, runs and golden-checks one file.
func runScenarioFile(file string, update bool, runOpts []harness.Option) ScenarioReport {
	report := ScenarioReport{File: file, Name: filepath.Base(file), Golden: GoldenNone}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		report.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return report
	}
	report.Name = scenario.Name

	result, err := harness.Run(scenario, runOpts...)
	if err != nil {
		report.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return report
	}

	golden := harness.GoldenFilePath(file)
	switch {
	case update:
		if err := harness.UpdateGolden(golden, scenario.Name, result); err != nil {
			result.AddError(fmt.Sprintf("failed to update golden file: %v", err))
		} else {
			report.Golden = GoldenUpdated
		}
	case fileExists(golden):
		match, err := harness.CompareGolden(golden, scenario.Name, result)
		switch {
		case err != nil:
			result.AddError(fmt.Sprintf("golden comparison failed: %v", err))
		case match:
			report.Golden = GoldenMatch
		default:
			report.Golden = GoldenMismatch
			result.AddError("trace does not match golden file (run with --update to regenerate)")
		}
	}

	report.Pass = result.Pass
	report.Errors = result.Errors
	return report
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func printReport(w io.Writer, r ScenarioReport) {
	mark := "✓"
	if !r.Pass {
		mark = "✗"
	}
	if r.Golden == GoldenUpdated {
		fmt.Fprintf(w, "%s %s (golden updated)\n", mark, r.Name)
	} else {
		fmt.Fprintf(w, "%s %s\n", mark, r.Name)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

func printSummary(w io.Writer, s TestSummary) {
	if s.Total() == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", s.Passed, s.Failed, s.Total())
}
