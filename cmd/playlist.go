package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// PlaylistList prints every playlist with its size and age.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	state := lib.State()
	if cmd.Bool("json") {
		return r.writeJSON(state.Playlists, true)
	}

	rows := make([][]string, 0, len(state.Playlists))
	for _, p := range state.Playlists {
		marker := ""
		if p.ID == state.SelectedPlaylistID {
			marker = "●"
		}
		rows = append(rows, []string{
			marker,
			p.ID,
			truncate(p.Name, 40),
			strconv.Itoa(len(p.Items)),
			humanize.Time(p.CreatedAt.Time()),
		})
	}

	r.writePlain("%s\n", renderTable(
		[]string{"", "ID", "Name", "Videos", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

// PlaylistCreate creates and selects a playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	p := lib.CreatePlaylist(cmd.StringArg("name"))
	r.writePlain("✓ Created %s (%s)\n", p.Name, p.ID)
	return nil
}

// PlaylistRename renames a playlist.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	ref, name := cmd.StringArg("playlist"), cmd.StringArg("name")
	if strings.TrimSpace(ref) == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: usage: playlist rename <playlist> <name>", shared.ErrMissingArgument)
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	p, err := lib.RenamePlaylist(ref, name)
	if err != nil {
		return err
	}
	r.writePlain("✓ Renamed to %s\n", p.Name)
	return nil
}

// PlaylistDelete deletes a playlist. Deleting the last one leaves a fresh default playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("playlist")
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("%w: playlist is required", shared.ErrMissingArgument)
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	p, err := lib.Playlist(ref)
	if err != nil {
		return err
	}
	if err := lib.DeletePlaylist(p.ID); err != nil {
		return err
	}
	r.writePlain("✓ Deleted %s (%d videos)\n", p.Name, len(p.Items))
	return nil
}

// PlaylistSelect changes the selected playlist.
func (r *Runner) PlaylistSelect(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("playlist")
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("%w: playlist is required", shared.ErrMissingArgument)
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	p, err := lib.SelectPlaylist(ref)
	if err != nil {
		return err
	}
	r.writePlain("✓ Selected %s\n", p.Name)
	return nil
}
