// Package cli implements the spell command line: a local stand-in for the
// host environment that calls spell operations under an explicit call
// context and runs harness scenarios.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	DB         string // overrides the configured database path
	ConfigPath string
	LogJSON    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the spell CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "spell",
		Short: "Spell - per-spell key-value store",
		Long: `Spell keeps the persistent state of one spell: a key-value store with
role-based write permissions, bounded log/mailbox/error journals, and
write-once relay and script settings.

Every operation runs under an explicit call context (caller, particle,
service, creator, worker, host) that decides which keys it may write.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "database path (overrides config)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (YAML)")
	cmd.PersistentFlags().BoolVar(&opts.LogJSON, "log-json", false, "log as JSON on stderr")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewCallCommand(opts))
	cmd.AddCommand(NewOpsCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
