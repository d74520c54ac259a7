package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vidshelf/internal/formatter"
	"github.com/desertthunder/vidshelf/internal/share"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Share prints a share link for the configured (or flagged) scope.
func (r *Runner) Share(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	opts := lib.ShareOptions()
	if cmd.IsSet("scope") {
		if opts.Scope, err = share.ParseScope(cmd.String("scope")); err != nil {
			return err
		}
	}
	if cmd.IsSet("thumbnails") {
		opts.IncludeThumbnails = cmd.Bool("thumbnails")
	}

	res, err := lib.Share(opts)
	if err != nil {
		return err
	}

	if cmd.Bool("token") {
		return r.writePlain("%s\n", res.Token)
	}

	r.writePlain("Sharing %d playlists (%d videos)\n\n%s\n", res.Playlists, res.Videos, res.Link)
	if cmd.Bool("open") {
		return r.open(res.Link)
	}
	return nil
}

// Import folds a share link or token, or a JSON export given with --file, into the collection.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	mode, err := share.ParseMode(cmd.String("mode"))
	if err != nil {
		return err
	}

	file := cmd.String("file")
	text := strings.Join(cmd.Args().Slice(), " ")
	if file == "" && strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: a link, token or --file is required", shared.ErrMissingArgument)
	}
	if file != "" && strings.TrimSpace(text) != "" {
		return fmt.Errorf("%w: cannot combine a link with --file", shared.ErrInvalidArgument)
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	var res *tasks.ImportResult
	if file != "" {
		res, err = lib.ImportFile(file, mode)
	} else {
		res, err = lib.Import(text, mode)
	}
	if err != nil {
		return err
	}

	r.writePlain("✓ Imported %d playlists (%d videos) with %s\n", res.Playlists, res.Videos, res.Mode)
	return nil
}

// Export writes playlists to disk, or prints the whole collection as JSON when no directory is given.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	output := cmd.String("output")
	playlists := cmd.StringSlice("playlist")
	if format == formatter.FormatJSON && output == "" && len(playlists) == 0 {
		data, err := formatter.ExportToJSON(lib.State())
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := lib.BulkExport(ctx, progressCh, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  output,
		Playlists:  playlists,
		NumWorkers: cmd.Int("workers"),
		Covers:     cmd.Bool("covers"),
	})
	close(progressCh)
	<-done

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Export Complete")
		r.writePlain("Exported: %d/%d playlists\n", result.SuccessfulExports, result.TotalPlaylists)
		r.writePlain("Directory: %s\n", result.OutputDirectory)
		if result.ManifestPath != "" {
			r.writePlain("Manifest: %s\n", result.ManifestPath)
		}
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - %s: %v\n", res.PlaylistName, res.Error)
			}
		}
	}
	return err
}
