package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitResult is the JSON payload of the init command.
type InitResult struct {
	Database       string `json:"database"`
	Logs           int    `json:"capacity_logs"`
	Mailbox        int    `json:"capacity_mailbox"`
	ErrorParticles int    `json:"capacity_error_particles"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or upgrade the spell database",
		Long: `Create the spell database if it does not exist and apply the schema.

Safe to run on an existing database: the schema is applied idempotently
and the configured journal capacities are recorded.

Examples:
  spell init --db ./spell.sqlite
  spell init --config spell.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	e, err := opts.openEnv(cmd.ErrOrStderr(), "")
	if err != nil {
		return err
	}
	defer e.Close()

	caps := e.store.Capacities()
	result := InitResult{
		Database:       e.cfg.Database,
		Logs:           caps.Logs,
		Mailbox:        caps.Mailbox,
		ErrorParticles: caps.ErrorParticles,
	}
	e.log.Info().Str("db", result.Database).Msg("database initialized")

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("initialized %s (logs=%d mailbox=%d error_particles=%d)",
		result.Database, result.Logs, result.Mailbox, result.ErrorParticles))
}
