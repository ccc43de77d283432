package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type VersionInfo struct {
	Version string
	Commit  string
}

func (vi VersionInfo) String() string {
	return fmt.Sprintf("%s.%s", vi.Version, vi.Commit)
}

// set by NewRootCommand
var current VersionInfo

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "joinpractice %s\n", current)
			return nil
		},
	}
}
