package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/charmpack/charmpack/internal/adapters/outbound/tui"
	"github.com/charmpack/charmpack/internal/domain/catalog"
	"github.com/charmpack/charmpack/internal/domain/profiles"
)

func newListExtensionsCmd(g *globals) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list-extensions [tag]",
		Short: "List the framework extensions charmpack can expand",
		Long: "List every registered extension and the integration interfaces charmpack derives " +
			"environment variables for, or show everything a single extension injects.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := g.service()

			if len(args) == 1 {
				if jsonOut {
					summary, err := svc.Profile(args[0])
					if err != nil {
						return err
					}
					return writeJSON(cmd, summary)
				}
				p, err := svc.Registry().Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderProfile(p))
				return nil
			}

			if jsonOut {
				return writeJSON(cmd, svc.Catalog())
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderProfiles(svc.Registry().Profiles(), profiles.Version))
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderInterfaces(catalog.Interfaces()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
