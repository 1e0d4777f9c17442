package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd(g *globals) *cobra.Command {
	var (
		extension string
		name      string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter charmcraft.yaml using an extension",
		Long:  "Create a charmcraft.yaml that declares the given framework extension and expands cleanly.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			written, err := g.service().Scaffold(path, extension, name, force)
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(path, written)
			if err != nil {
				rel = written
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", rel)
			fmt.Fprintln(cmd.OutOrStdout(), "Run charmpack expand-extensions to preview what it injects.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&extension, "extension", "e", "", "Extension tag to declare (see list-extensions)")
	cmd.Flags().StringVar(&name, "name", "", "Charm name (defaults to the directory name)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing charmcraft.yaml")
	_ = cmd.MarkFlagRequired("extension")
	return cmd
}
