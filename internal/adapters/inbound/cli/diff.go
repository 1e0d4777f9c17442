package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/charmpack/charmpack/internal/adapters/outbound/tui"
	"github.com/charmpack/charmpack/internal/application"
	"github.com/charmpack/charmpack/internal/domain"
)

func newDiffCmd(g *globals) *cobra.Command {
	var (
		projectDir string
		revision   string
		extension  string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show how the expanded descriptor changed since a git revision",
		Long: "Expand the descriptor as committed at a git revision and as it is in the working " +
			"tree, and print a line diff of the two expansions.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := application.ExpandOptions{
				Extension:  extension,
				Format:     domain.OutputFormat(format),
				Descriptor: g.settings.Descriptor,
			}
			result, err := g.service().Diff(projectDir, revision, opts)
			if err != nil {
				if isProblem(err) {
					fmt.Fprint(cmd.ErrOrStderr(), tui.RenderProblems(describePath(projectDir, opts.Descriptor), err))
					return reported(err)
				}
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderDiff(revision, "working tree", string(result.Before), string(result.After)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project-dir", "p", ".", "Project directory inside a git repository")
	cmd.Flags().StringVar(&revision, "rev", "HEAD", "Git revision to compare against")
	cmd.Flags().StringVar(&extension, "extension", "", "Expected extension tag")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Format both expansions are compared in: yaml or json")
	return cmd
}
