package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/store"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// RevisionsList prints the snapshots the sqlite store kept before each save.
func (r *Runner) RevisionsList(ctx context.Context, cmd *cli.Command) error {
	sqlite, err := r.revisionStore()
	if err != nil {
		return err
	}

	revisions, err := sqlite.Revisions(r.config.Storage.Key)
	if err != nil {
		return err
	}

	type summary struct {
		ID         int64  `json:"id"`
		ReplacedAt string `json:"replacedAt"`
		Playlists  int    `json:"playlists"`
		Videos     int    `json:"videos"`
		Error      string `json:"error,omitempty"`
	}

	summaries := make([]summary, 0, len(revisions))
	rows := make([][]string, 0, len(revisions))
	for _, rev := range revisions {
		s := summary{ID: rev.ID, ReplacedAt: rev.ReplacedAt.UTC().Format("2006-01-02T15:04:05Z")}
		if state, err := store.ParseState(rev.Value); err != nil {
			s.Error = err.Error()
		} else {
			s.Playlists, s.Videos = len(state.Playlists), state.ItemCount()
		}
		summaries = append(summaries, s)

		contents := fmt.Sprintf("%d playlists, %d videos", s.Playlists, s.Videos)
		if s.Error != "" {
			contents = "unreadable"
		}
		rows = append(rows, []string{strconv.FormatInt(rev.ID, 10), humanize.Time(rev.ReplacedAt), contents})
	}

	if cmd.Bool("json") {
		return r.writeJSON(summaries, true)
	}
	if len(rows) == 0 {
		r.writePlain("No revisions stored yet\n")
		return nil
	}

	r.writePlain("%s\n", renderTable(
		[]string{"ID", "Replaced", "Contents"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
	return nil
}

// RevisionsRestore replaces the collection with a stored revision. The restore itself is saved, so it can be
// reverted the same way.
func (r *Runner) RevisionsRestore(ctx context.Context, cmd *cli.Command) error {
	raw, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: revision id %q", shared.ErrInvalidArgument, raw)
	}

	sqlite, err := r.revisionStore()
	if err != nil {
		return err
	}

	rev, err := sqlite.Revision(id)
	if err != nil {
		return err
	}
	if rev.Key != r.config.Storage.Key {
		return fmt.Errorf("%w: revision %d belongs to %q", shared.ErrInvalidArgument, id, rev.Key)
	}

	state, err := store.ParseState(rev.Value)
	if err != nil {
		return fmt.Errorf("revision %d: %w", id, err)
	}

	r.lib.Replace(state)
	r.writePlain("✓ Restored revision %d (%d playlists, %d videos)\n", id, len(state.Playlists), state.ItemCount())
	return nil
}
