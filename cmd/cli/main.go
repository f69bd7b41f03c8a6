package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/accreditation-draw/cmd/cli/commands"
	"github.com/jakechorley/accreditation-draw/internal/config"
	"github.com/jakechorley/accreditation-draw/pkg/utils/logging"
)

// rootFlags are the persistent flags shared by every subcommand
type rootFlags struct {
	env        string
	configPath string
}

func main() {
	if err := newRootCmd(&commands.AppContext{}, os.Stdin).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(app *commands.AppContext, in io.Reader) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "cli",
		Short: "Accreditation draw CLI - Allocate accreditation windows",
		Long: `A CLI tool for drawing applicants into two accreditation windows by merit tier,
with soft limits on experienced and male applicants, and a waiting list for everyone else.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app, flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.env, "env", "e", "", "Environment (required: test, prod, etc.)")
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file path (default: accreditation_config.<env>.yaml)")
	_ = root.MarkPersistentFlagRequired("env")

	root.AddCommand(
		commands.DrawCmd(app),
		commands.ListApplicantsCmd(app),
		commands.ListDrawsCmd(app),
		commands.InteractiveCmd(app, in),
	)

	return root
}

// initApp sets up the logger and configuration. Clients are created when a command needs them.
func initApp(app *commands.AppContext, flags *rootFlags) error {
	logger, err := logging.InitLogger(flags.env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Env = flags.env
	app.Ctx = context.Background()
	app.Logger = logger

	logger.Info("Starting application", zap.String("environment", flags.env))

	var cfg *config.Config
	if flags.configPath != "" {
		logger.Info("Loading configuration", zap.String("path", flags.configPath))
		cfg, err = config.LoadFromPath(flags.configPath)
	} else {
		logger.Info("Loading configuration")
		cfg, err = config.LoadWithEnv(flags.env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg

	logger.Debug("Configuration loaded successfully",
		zap.String("roster_source", cfg.Roster.Source),
		zap.Int("retry_budget", cfg.EffectiveRetryBudget()))

	return nil
}
