package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default config file at the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if r.configPath == "" {
		return fmt.Errorf("%w: --config path is empty", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("✓ Wrote %s\n", r.configPath)
	return nil
}

// SetupDatabase opens the configured storage, which creates and migrates the sqlite database when needed,
// and seeds the collection.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	storage := r.config.Storage
	r.logger.Info("initializing storage", "driver", storage.Driver, "path", storage.Path)

	if cmd.Bool("reset") {
		sqlite, err := r.revisionStore()
		if err != nil {
			return err
		}
		if err := sqlite.Reset(); err != nil {
			return err
		}
		r.lib = nil
		r.logger.Warn("storage reset", "path", storage.Path)
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	state := lib.State()
	r.logger.Infof("setup complete for %s storage: %v", storage.Driver, storage.Path)
	r.writePlain("✓ Storage ready (%s)\n", storage.Driver)
	r.writePlain("Playlists: %d, videos: %d\n", len(state.Playlists), state.ItemCount())
	return nil
}
