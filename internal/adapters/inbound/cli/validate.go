package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/charmpack/charmpack/internal/adapters/outbound/tui"
	"github.com/charmpack/charmpack/internal/application"
	"github.com/charmpack/charmpack/internal/domain"
)

func newValidateCmd(g *globals) *cobra.Command {
	var (
		recursive bool
		jsonOut   bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "validate [path...]",
		Short: "Check that descriptors expand cleanly",
		Long: "Expand every given descriptor, or the descriptor of every given project directory, " +
			"and report all problems at once. Clean results are cached per project until the " +
			"descriptor or the extension table changes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := g.service().ValidateAll(cmd.Context(), args, application.ValidateOptions{
				Recursive: recursive,
				NoCache:   noCache,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderValidation(results))
			}
			return validationError(results)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Search directories for descriptors")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore and do not write the validation cache")
	return cmd
}

// validationError summarizes failed results, carrying the most severe
// exit code among them.
func validationError(results []domain.ValidationResult) error {
	failed, code := 0, ExitOK
	for _, r := range results {
		if r.OK() {
			continue
		}
		failed++
		if c := classify(r.Err); c > code {
			code = c
		}
	}
	if failed == 0 {
		return nil
	}
	return &reportedError{
		code: code,
		err:  fmt.Errorf("%d of %d descriptors failed validation", failed, len(results)),
	}
}
