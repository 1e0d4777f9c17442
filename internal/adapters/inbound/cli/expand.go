package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/charmpack/charmpack/internal/adapters/outbound/tui"
	"github.com/charmpack/charmpack/internal/application"
	"github.com/charmpack/charmpack/internal/domain"
)

func newExpandCmd(g *globals) *cobra.Command {
	var (
		projectDir string
		extension  string
		format     string
		descriptor string
	)

	cmd := &cobra.Command{
		Use:     "expand-extensions",
		Aliases: []string{"expand"},
		Short:   "Print the descriptor with its extensions expanded",
		Long: "Expand the framework extension declared in the project's charmcraft.yaml and print " +
			"the result. The descriptor on disk is not modified.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if descriptor == "" {
				descriptor = g.settings.Descriptor
			}
			result, err := g.service().ExpandProject(projectDir, application.ExpandOptions{
				Extension:  extension,
				Format:     domain.OutputFormat(format),
				Descriptor: descriptor,
			})
			if err != nil {
				if isProblem(err) {
					fmt.Fprint(cmd.ErrOrStderr(), tui.RenderProblems(describePath(projectDir, descriptor), err))
					return reported(err)
				}
				return err
			}
			_, err = cmd.OutOrStdout().Write(result.Output)
			return err
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project-dir", "p", ".", "Project directory containing the descriptor")
	cmd.Flags().StringVar(&extension, "extension", "", "Expected extension tag; fails if the descriptor declares another")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: yaml or json (default from .charmpack.yaml, else yaml)")
	cmd.Flags().StringVar(&descriptor, "descriptor", "", "Descriptor file relative to the project directory")
	return cmd
}

func describePath(projectDir, descriptor string) string {
	if descriptor == "" {
		descriptor = domain.DefaultDescriptorFile
	}
	return filepath.Join(projectDir, descriptor)
}
