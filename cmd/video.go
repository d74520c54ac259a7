package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/tags"
	"github.com/desertthunder/vidshelf/internal/tasks"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// VideoAdd adds one URL directly, or several through the concurrent bulk path with progress output.
func (r *Runner) VideoAdd(ctx context.Context, cmd *cli.Command) error {
	urls := cmd.Args().Slice()
	if len(urls) == 0 {
		return fmt.Errorf("%w: at least one URL is required", shared.ErrMissingArgument)
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	ref := cmd.String("playlist")
	tagList := tags.ParseTagsInput(cmd.String("tags"))

	if len(urls) == 1 {
		item, err := lib.AddVideo(ctx, tasks.AddVideoInput{
			Playlist: ref,
			URL:      urls[0],
			Title:    cmd.String("title"),
			Tags:     tagList,
		})
		if err != nil {
			return err
		}
		r.writePlain("✓ Added %s\n  %s\n", item.DisplayTitle(), item.URL)
		return nil
	}

	if cmd.String("title") != "" {
		return fmt.Errorf("%w: --title only applies to a single URL", shared.ErrInvalidFlag)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.LookupMetadata:
				r.logger.Debug(update.Message)
			default:
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := lib.AddVideos(ctx, progressCh, urls, tasks.BulkAddOpts{
		Playlist:   ref,
		Tags:       tagList,
		NumWorkers: cmd.Int("workers"),
	})
	close(progressCh)
	<-done

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Add Complete")
		r.writePlain("Added: %d/%d\n", result.Added, result.Total)
		if result.Failed > 0 {
			r.writePlain("\nFailed %d:\n", result.Failed)
			for _, res := range result.Results {
				if res.Error != nil {
					r.writePlain("  - %s: %v\n", res.URL, res.Error)
				}
			}
		}
	}
	return err
}

// VideoRemove removes a video from a playlist.
func (r *Runner) VideoRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	if err := lib.RemoveVideo(cmd.String("playlist"), id); err != nil {
		return err
	}
	r.writePlain("✓ Removed %s\n", id)
	return nil
}

// VideoMove moves a video to the front of another playlist.
func (r *Runner) VideoMove(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	res, err := lib.MoveVideo(cmd.String("playlist"), cmd.String("to"), id)
	if err != nil {
		return err
	}

	if res.Dropped {
		r.writePlain("! %s already contains this video; removed it from %s\n", res.To.Name, res.From.Name)
		return nil
	}
	r.writePlain("✓ Moved %s to %s\n", res.Item.DisplayTitle(), res.To.Name)
	return nil
}

// VideoTag replaces a video's tags. Tags may be comma or space separated across the remaining arguments.
func (r *Runner) VideoTag(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() < 1 {
		return fmt.Errorf("%w: usage: video tag <id> <tags>", shared.ErrMissingArgument)
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	tagList := tags.ParseTagsInput(strings.Join(args.Tail(), ","))
	item, err := lib.TagVideo(cmd.String("playlist"), args.First(), tagList)
	if err != nil {
		return err
	}

	if len(item.Tags) == 0 {
		r.writePlain("✓ Cleared tags on %s\n", item.DisplayTitle())
		return nil
	}
	r.writePlain("✓ Tagged %s: #%s\n", item.DisplayTitle(), strings.Join(item.Tags, " #"))
	return nil
}

// VideoList prints the videos in a playlist, newest first.
func (r *Runner) VideoList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	p, err := lib.Playlist(cmd.String("playlist"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(p, true)
	}

	r.writePlain("%s (%d videos)\n", p.Name, len(p.Items))
	r.writePlain("%s\n", videoTable(p.Items, nil))
	return nil
}

// VideoSearch matches a "#tag word" query against one or every playlist.
func (r *Runner) VideoSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: query is required", shared.ErrMissingArgument)
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	hits, err := lib.Search(cmd.String("playlist"), query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type hit struct {
			PlaylistID   string            `json:"playlistId"`
			PlaylistName string            `json:"playlistName"`
			Item         *models.VideoItem `json:"item"`
		}
		out := make([]hit, 0, len(hits))
		for _, h := range hits {
			out = append(out, hit{h.Playlist.ID, h.Playlist.Name, h.Item})
		}
		return r.writeJSON(out, true)
	}

	if len(hits) == 0 {
		r.writePlain("No videos match %q\n", query)
		return nil
	}

	items := make([]*models.VideoItem, 0, len(hits))
	names := make([]string, 0, len(hits))
	for _, h := range hits {
		items = append(items, h.Item)
		names = append(names, h.Playlist.Name)
	}
	r.writePlain("%d matches for %q\n", len(hits), query)
	r.writePlain("%s\n", videoTable(items, names))
	return nil
}

// VideoOpen opens a video's URL in the browser.
func (r *Runner) VideoOpen(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	p, err := lib.Playlist(cmd.String("playlist"))
	if err != nil {
		return err
	}
	_, item := p.FindItem(id)
	if item == nil {
		return fmt.Errorf("%w: %s in %s", shared.ErrVideoNotFound, id, p.Name)
	}

	r.logger.Info("opening video", "url", item.URL)
	return r.open(item.URL)
}

// Intent applies an add-video deep link to the selected playlist.
func (r *Runner) Intent(ctx context.Context, cmd *cli.Command) error {
	link, err := requireArg(cmd, "link")
	if err != nil {
		return err
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	item, err := lib.ApplyIntent(ctx, link)
	if err != nil {
		return err
	}
	r.writePlain("✓ Added %s\n  %s\n", item.DisplayTitle(), item.URL)
	return nil
}

// videoTable renders items; playlists, when set, adds a leading playlist column.
func videoTable(items []*models.VideoItem, playlists []string) string {
	headers := []string{"ID", "Title", "URL", "Tags", "Added"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
	if playlists != nil {
		headers = append([]string{"Playlist"}, headers...)
		aligns = append(aligns, alignLeft)
	}

	rows := make([][]string, 0, len(items))
	for i, item := range items {
		tagText := ""
		if len(item.Tags) > 0 {
			tagText = "#" + strings.Join(item.Tags, " #")
		}
		row := []string{
			item.ID,
			truncate(item.DisplayTitle(), 48),
			truncate(item.URL, 48),
			tagText,
			humanize.Time(item.AddedAt.Time()),
		}
		if playlists != nil {
			row = append([]string{playlists[i]}, row...)
		}
		rows = append(rows, row)
	}

	return renderTable(headers, rows, aligns)
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", shared.ErrMissingArgument, name)
	}
	return v, nil
}
