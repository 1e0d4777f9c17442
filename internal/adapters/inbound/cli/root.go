package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cacheAdapter "github.com/charmpack/charmpack/internal/adapters/outbound/cache"
	"github.com/charmpack/charmpack/internal/adapters/outbound/config"
	"github.com/charmpack/charmpack/internal/adapters/outbound/descriptor"
	"github.com/charmpack/charmpack/internal/adapters/outbound/gitinfo"
	"github.com/charmpack/charmpack/internal/adapters/outbound/scanner"
	"github.com/charmpack/charmpack/internal/application"
	"github.com/charmpack/charmpack/internal/domain/profiles"
	"github.com/charmpack/charmpack/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

// globals holds state shared by every subcommand, filled in before any
// of them runs.
type globals struct {
	verbose  bool
	settings config.Settings
	logger   *zap.Logger
}

func (g *globals) setup() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	cfg := logging.DefaultConfig()
	cfg.Level = settings.LogLevel
	cfg.Development = settings.LogDev
	if g.verbose {
		cfg.Level = "debug"
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return err
	}
	g.settings = settings
	g.logger = logger
	return nil
}

func (g *globals) service() *application.ExpandService {
	return application.NewExpandService(
		profiles.Default(),
		descriptor.New(),
		config.New(),
		scanner.New(),
		cacheAdapter.New(),
		gitinfo.New(),
		g.logger,
	)
}

func newRootCmd() *cobra.Command {
	g := &globals{logger: zap.NewNop()}
	cmd := &cobra.Command{
		Use:   "charmpack",
		Short: "Expand framework extensions in charm descriptors",
		Long: "charmpack expands the framework extensions declared in a charmcraft.yaml into the " +
			"config options, integrations and environment bindings they imply, and reports every " +
			"conflict with what the author declared.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = g.logger.Sync()
		},
	}
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log expansion steps to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newExpandCmd(g))
	cmd.AddCommand(newListExtensionsCmd(g))
	cmd.AddCommand(newValidateCmd(g))
	cmd.AddCommand(newInitCmd(g))
	cmd.AddCommand(newDiffCmd(g))
	cmd.AddCommand(newMCPCmd(g))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the command line and prints any error not already
// reported. Pass the result to ExitCode.
func Execute() error {
	cmd := newRootCmd()
	err := cmd.Execute()
	if err == nil {
		return nil
	}
	var re *reportedError
	if !errors.As(err, &re) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}
