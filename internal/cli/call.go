package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/spell/internal/ir"
	"github.com/roach88/spell/internal/spell"
)

// CallOptions holds flags for the call command.
type CallOptions struct {
	*RootOptions
	Context ir.CallContext

	particles ParticleIDGenerator
}

// NewCallCommand creates the call command.
func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	return newCallCommand(rootOpts, UUIDv7Generator{})
}

func newCallCommand(rootOpts *RootOptions, particles ParticleIDGenerator) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts, particles: particles}

	cmd := &cobra.Command{
		Use:   "call <op> [args...]",
		Short: "Run one spell operation under a call context",
		Long: `Run one spell operation as if the host delivered it.

The call context flags decide the caller's roles: the caller is Host when it
equals --host, Worker when it equals --worker, and the spell itself when the
particle is spell_<service-id>_<seq> and the caller is both worker and creator.
Without --particle a fresh UUIDv7 is used.

Exit codes:
  0 - Operation succeeded (including absent reads)
  1 - Operation failed (forbidden, not found, ...)
  2 - Command error (unknown operation, bad arguments, ...)

Run "spell ops" for the list of operations.

Examples:
  spell call set_string h_status up --caller H --host H --worker W --creator W
  spell call store_log "started" --caller W --worker W --creator W \
      --service-id s1 --particle spell_s1_0
  spell call get_logs --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(opts, args[0], args[1:], cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Context.CallerPeerID, "caller", "", "peer id of the caller")
	f.StringVar(&opts.Context.ParticleID, "particle", "", "particle id (default: new UUIDv7)")
	f.StringVar(&opts.Context.ServiceID, "service-id", "", "id of this spell service")
	f.StringVar(&opts.Context.ServiceCreatorPeerID, "creator", "", "peer id that created the service")
	f.StringVar(&opts.Context.WorkerID, "worker", "", "peer id of the worker running the spell")
	f.StringVar(&opts.Context.HostID, "host", "", "peer id of the host")

	return cmd
}

func runCall(opts *CallOptions, op string, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, ok := spell.Usage(op); !ok {
		_ = formatter.Error("E_UNKNOWN_OP", fmt.Sprintf("unknown operation %q", op), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown operation %q (see 'spell ops')", op))
	}

	cc := opts.Context
	if cc.ParticleID == "" {
		cc.ParticleID = opts.particles.Generate()
	}

	e, err := opts.openEnv(cmd.ErrOrStderr(), cc.ServiceID)
	if err != nil {
		return err
	}
	defer e.Close()

	formatter.VerboseLog("call %s as %s (particle %s)", op, cc.CallerPeerID, cc.ParticleID)

	outcome, err := e.service.Invoke(cmd.Context(), cc, op, args)
	if err != nil {
		_ = formatter.Error("E_USAGE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid call", err)
	}

	if !outcome.Success {
		_ = formatter.Error(string(outcome.Code), outcome.Error, nil)
		return NewExitError(ExitFailure, fmt.Sprintf("%s failed: %s", op, outcome.Code))
	}

	if opts.Format == "json" {
		return formatter.Success(outcome)
	}
	text, err := renderOutcome(outcome)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to render result", err)
	}
	return formatter.Success(text)
}

// renderOutcome is the text form of a successful outcome: "ok" for
// operations without a value, "absent" for empty reads, the raw string for
// string values and canonical JSON for everything else.
func renderOutcome(o spell.Outcome) (string, error) {
	switch {
	case o.Absent:
		return "absent", nil
	case o.Value == nil:
		return "ok", nil
	}
	if s, ok := o.Value.(string); ok {
		return s, nil
	}
	v, err := ir.ToCanonicalValue(o.Value)
	if err != nil {
		return "", err
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
