package main

import (
	"context"

	"github.com/desertthunder/vidshelf/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until the command's context is canceled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	r.writePlain("Serving on http://%s (Ctrl+C to stop)\n", cfg.Addr())
	return server.Serve(ctx, cfg.Addr(), server.NewRouter(lib, r.logger), r.logger)
}
