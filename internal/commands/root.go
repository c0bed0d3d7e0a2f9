package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wsynab/wsynab/internal/buildinfo"
	"github.com/wsynab/wsynab/internal/config"
	"github.com/wsynab/wsynab/internal/kv"
	"github.com/wsynab/wsynab/internal/logging"
	"github.com/wsynab/wsynab/internal/settings"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "wsynab",
		Short:   "Export Wealthsimple activity to a YNAB CSV",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", config.DefaultPath(), "config file")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&g.logFormat, "log-format", "", "log format: console or json (overrides config)")

	rootCmd.AddCommand(newInitCommand(g))
	rootCmd.AddCommand(newExportCommand(g))
	rootCmd.AddCommand(newRulesCommand(g))
	rootCmd.AddCommand(newRunsCommand(g))

	return rootCmd
}

// load reads the config, falling back to defaults when the file does not
// exist, and installs the logger it describes.
func (g *globalFlags) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(g.configPath)
	missing := errors.Is(err, os.ErrNotExist)
	if err != nil && !missing {
		return nil, zerolog.Nop(), err
	}
	if missing {
		cfg = config.Default()
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if g.logLevel != "" {
		level = g.logLevel
	}
	if g.logFormat != "" {
		format = g.logFormat
	}
	logger, err := logging.Setup(os.Stderr, level, format)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if missing {
		logger.Debug().Str("path", g.configPath).Msg("no config file, using defaults")
	}
	return cfg, logger, nil
}

// openSettings opens the configured backend and loads the rename rules.
// The load error is returned alongside a usable store holding defaults.
func openSettings(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*settings.Store, func() error, error) {
	backend, closeFn, err := kv.Open(cfg.Settings.Backend, cfg.Settings.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening settings: %w", err)
	}
	store := settings.NewStore(backend, logger)
	return store, closeFn, store.Load(ctx)
}
