package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wsynab/wsynab/internal/config"
	"github.com/wsynab/wsynab/internal/kv"
	"github.com/wsynab/wsynab/internal/settings"
	"github.com/wsynab/wsynab/internal/snapshot"
)

func newInitCommand(g *globalFlags) *cobra.Command {
	var force bool
	var dataDir string
	var backend string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config and an empty rule set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataDir == "" {
				dataDir = config.DefaultDataDir()
			}
			absDir, err := filepath.Abs(dataDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd.Context(), cmd.OutOrStdout(), g, absDir, backend, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory for settings, snapshots and logs (default XDG data home)")
	cmd.Flags().StringVar(&backend, "backend", kv.BackendFile, "settings backend: file, sqlite or memory")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, g *globalFlags, dataDir, backend string, force bool) error {
	if _, err := os.Stat(g.configPath); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", g.configPath)
	}

	cfg := config.DefaultIn(dataDir)
	cfg.Settings.Backend = backend
	switch backend {
	case kv.BackendSQLite:
		cfg.Settings.Path = filepath.Join(dataDir, "settings.db")
	case kv.BackendMemory:
		cfg.Settings.Path = ""
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dirs := []string{
		cfg.Import.Dir,
		filepath.Join(cfg.Import.Dir, snapshot.ProcessedDir),
		filepath.Dir(cfg.Export.RunLog),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(g.configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	_, logger, err := g.load()
	if err != nil {
		return err
	}

	store, closeStore, err := kv.Open(cfg.Settings.Backend, cfg.Settings.Path)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	defer closeStore()

	// Existing rules survive a forced re-init.
	existing, err := store.GetValue(ctx, settings.StateKey, "")
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	if existing == "" {
		if err := settings.NewStore(store, logger).Save(ctx); err != nil {
			return fmt.Errorf("writing settings: %w", err)
		}
	}

	fmt.Fprintf(out, "Initialized wsynab config at %s (data in %s)\n", g.configPath, dataDir)
	return nil
}
