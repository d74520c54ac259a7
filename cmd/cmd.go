// submodule cmd contains command definitions
package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/urfave/cli/v3"
)

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "vidshelf",
		Usage:   "Collect, tag and share playlists of video links",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(r.logger, log.DebugLevel)
			}
			return ctx, r.loadConfig(cmd.String("config"))
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			return r.Close()
		},
		Commands: r.register(),
	}
}

func playlistFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "playlist",
		Aliases: []string{"p"},
		Usage:   "Playlist id or name (default: the selected playlist)",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

// setupCommand handles configuration and storage initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a default config.toml at the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize storage and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Erase the stored collection and its revisions (sqlite only)",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// playlistCommand handles playlist management.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List playlists",
				Flags:   []cli.Flag{jsonFlag()},
				Action:  r.PlaylistList,
			},
			{
				Name:      "create",
				Usage:     "Create a playlist and select it",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.PlaylistCreate,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
					&cli.StringArg{Name: "name"},
				},
				Action: r.PlaylistRename,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a playlist and its videos",
				Arguments: []cli.Argument{&cli.StringArg{Name: "playlist"}},
				Action:    r.PlaylistDelete,
			},
			{
				Name:      "select",
				Usage:     "Select the playlist other commands default to",
				Arguments: []cli.Argument{&cli.StringArg{Name: "playlist"}},
				Action:    r.PlaylistSelect,
			},
		},
	}
}

// videoCommand handles the videos inside a playlist.
func videoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "video",
		Aliases: []string{"v"},
		Usage:   "Video operations",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add one or more video URLs, looking up their titles",
				ArgsUsage: "<url>...",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.StringFlag{
						Name:    "tags",
						Aliases: []string{"t"},
						Usage:   "Comma separated tags for the new videos",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Title to use instead of the looked-up one (single URL only)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent lookups when adding several URLs",
						Value: 4,
					},
				},
				Action: r.VideoAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a video",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{playlistFlag()},
				Action:    r.VideoRemove,
			},
			{
				Name:      "move",
				Usage:     "Move a video to the front of another playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Destination playlist id or name",
						Required: true,
					},
				},
				Action: r.VideoMove,
			},
			{
				Name:      "tag",
				Usage:     "Replace a video's tags",
				ArgsUsage: "<id> <tag>[,<tag>...]",
				Flags:     []cli.Flag{playlistFlag()},
				Action:    r.VideoTag,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List the videos in a playlist",
				Flags:   []cli.Flag{playlistFlag(), jsonFlag()},
				Action:  r.VideoList,
			},
			{
				Name:      "search",
				Usage:     "Search videos with \"#tag word\" queries",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist id or name, or * for every playlist",
						Value:   "*",
					},
					jsonFlag(),
				},
				Action: r.VideoSearch,
			},
			{
				Name:      "open",
				Usage:     "Open a video in the browser",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{playlistFlag()},
				Action:    r.VideoOpen,
			},
		},
	}
}

// shareCommand builds share tokens and links.
func shareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Print a share link for the selected playlist or the whole collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scope",
				Usage: "selected or all (default: share.scope from config)",
			},
			&cli.BoolFlag{
				Name:  "thumbnails",
				Usage: "Include thumbnail URLs (default: share.include_thumbnails from config)",
			},
			&cli.BoolFlag{
				Name:  "token",
				Usage: "Print only the token",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the link in the browser",
			},
		},
		Action: r.Share,
	}
}

// importCommand folds a share link, token, or JSON export into the collection.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a share link or token, or a JSON export with --file",
		ArgsUsage: "<link or token>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "merge or replace",
				Value: "merge",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Path to a JSON export",
			},
		},
		Action: r.Import,
	}
}

// exportCommand writes playlists to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists as JSON, CSV, Markdown or text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "json, csv, markdown or txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (json without --output prints the collection)",
			},
			&cli.StringSliceFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Playlist id or name to export (repeatable, default: all)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "covers",
				Usage: "Download the first thumbnail as a Markdown cover image",
			},
		},
		Action: r.Export,
	}
}

// intentCommand applies an add-video deep link.
func intentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "intent",
		Usage:     "Add the video carried by a \"#/?add=1&url=...\" link",
		Arguments: []cli.Argument{&cli.StringArg{Name: "link"}},
		Action:    r.Intent,
	}
}

// revisionsCommand exposes the sqlite store's snapshot history.
func revisionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "revisions",
		Usage: "Inspect and restore previous saves (sqlite storage only)",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List stored revisions, newest first",
				Flags:   []cli.Flag{jsonFlag()},
				Action:  r.RevisionsList,
			},
			{
				Name:      "restore",
				Usage:     "Restore the collection saved in a revision",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.RevisionsRestore,
			},
		},
	}
}

// serveCommand runs the local JSON API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the collection over a local JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (default: server.host from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (default: server.port from config)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the interactive terminal UI.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse and edit the collection interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the TUI owns the terminal",
				Value: "./tmp/vidshelf-tui.log",
			},
		},
		Action: r.TUI,
	}
}
