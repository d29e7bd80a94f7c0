package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/spell/internal/spell"
)

// NewOpsCommand creates the ops command, which lists every operation with
// its positional arguments.
func NewOpsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ops",
		Short:         "List spell operations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			usages := make([]string, 0)
			for _, op := range spell.Operations() {
				u, _ := spell.Usage(op)
				usages = append(usages, u)
			}

			if rootOpts.Format == "json" {
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return f.Success(usages)
			}
			for _, u := range usages {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}
}
