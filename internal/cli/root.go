// Package cli contains the sackigami commands.
package cli

import (
	"context"
	"fmt"

	"github.com/okian/sackigami/internal/config"
	"github.com/okian/sackigami/pkg/logger"
	"github.com/okian/sackigami/pkg/metrics"
	"github.com/spf13/cobra"
)

// Version is the current version of sackigami.
var Version = "0.1.0"

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	envFile    string
	offline    bool
	dataFile   string
	ledgerPath string
	logLevel   string
}

// app carries what the commands need once flags and config are resolved.
type app struct {
	flags globalFlags
	cfg   *config.Config
	log   logger.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sackigami",
		Short: "Announce NFL games with never-seen-before sack stat lines",
		Long: `sackigami compares every game of an NFL gameday against all team games
since 1999 and announces the ones whose sack numbers are new or rare.

Configuration is read from defaults, an optional YAML file (--config or
SACKIGAMI_CONFIG), a .env file and SACKIGAMI_* environment variables.

Examples:
  sackigami gbg                        # announce the latest gameday
  sackigami gbg --season 2025 --week 16
  sackigami nosacks --offline          # print the no-sacks report`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&a.flags.envFile, "env-file", "", "Path to a .env file (default: ./.env if present)")
	pf.BoolVar(&a.flags.offline, "offline", false, "Print posts instead of publishing them")
	pf.StringVar(&a.flags.dataFile, "data-file", "", "Read history from a local CSV instead of nflverse")
	pf.StringVar(&a.flags.ledgerPath, "ledger", "", "Override the ledger path in effect")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level (debug|info|warn|error)")

	root.AddCommand(newGameByGameCommand(a), newNoSacksCommand(a), newCacheCommand(a))
	return root
}

// Execute runs the command tree with args and ctx.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context(), config.WithFile(a.flags.configPath), config.WithDotEnv(a.flags.envFile))
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("offline") {
		cfg.Offline = a.flags.offline
	}
	if a.flags.dataFile != "" {
		cfg.DataFile = a.flags.dataFile
	}
	if a.flags.ledgerPath != "" {
		if cfg.Offline {
			cfg.OfflineLedgerPath = a.flags.ledgerPath
		} else {
			cfg.LedgerPath = a.flags.ledgerPath
		}
	}
	if a.flags.logLevel != "" {
		cfg.LogLevel = a.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(
		logger.WithWriter(cmd.ErrOrStderr()),
		logger.WithFormat(cfg.LogFormat),
		logger.WithLevel(cfg.LogLevel),
	); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	a.cfg = cfg
	a.log = logger.Get()
	return nil
}

// flushMetrics writes the run's metrics when a textfile is configured.
func (a *app) flushMetrics(ctx context.Context) {
	if a.cfg.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
		a.log.Warn(ctx, "metrics export failed", logger.String("path", a.cfg.MetricsTextfile), logger.Error(err))
	}
}
