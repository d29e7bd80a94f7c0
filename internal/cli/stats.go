package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/roach88/spell/internal/store"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Metrics bool
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journal sizes and capacities",
		Long: `Show the recorded unit count and capacity of every bounded journal.

With --metrics the same numbers are printed in the Prometheus text
exposition format.

Examples:
  spell stats --db ./spell.sqlite
  spell stats --metrics`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus text format")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	e, err := opts.openEnv(cmd.ErrOrStderr(), "")
	if err != nil {
		return err
	}
	defer e.Close()

	stats, err := e.store.Stats(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read stats", err)
	}
	for _, st := range stats {
		e.metrics.SetJournal(string(st.Journal), st.Count, st.Capacity)
	}

	w := cmd.OutOrStdout()
	switch {
	case opts.Metrics:
		return writeMetrics(w, e.reg)
	case opts.Format == "json":
		f := &OutputFormatter{Format: opts.Format, Writer: w}
		return f.Success(stats)
	default:
		writeStatsText(w, stats)
		return nil
	}
}

func writeStatsText(w io.Writer, stats []store.JournalStat) {
	fmt.Fprintf(w, "%-8s %6s %8s\n", "JOURNAL", "UNITS", "CAPACITY")
	for _, st := range stats {
		fmt.Fprintf(w, "%-8s %6d %8d\n", st.Journal, st.Count, st.Capacity)
	}
}

// writeMetrics gathers g and writes every family in text exposition format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to gather metrics", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return WrapExitError(ExitFailure, "failed to write metrics", err)
		}
	}
	return nil
}
