package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display residents version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "residents v%s\n", Version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "built %s from %s\n", BuildDate, GitCommit)
		},
	}
}
