package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/charmpack/charmpack/internal/domain/profiles"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show charmpack version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "charmpack %s (%s), profiles %s\n", version, commit, profiles.Version)
			return nil
		},
	}
}
