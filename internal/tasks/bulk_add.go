package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/vidshelf/internal/models"
)

// BulkAddOpts contains configuration for adding many videos at once.
type BulkAddOpts struct {
	Playlist   string   // Target playlist id or name; empty means the selected playlist
	Tags       []string // Tags applied to every added video
	NumWorkers int      // Concurrent lookups (default: 4, max: 10)
}

// VideoAddResult is the outcome for one URL.
type VideoAddResult struct {
	URL   string
	Item  *models.VideoItem
	Error error
}

// BulkAddResult summarizes [Library.AddVideos].
type BulkAddResult struct {
	Total   int
	Added   int
	Failed  int
	Results []VideoAddResult // In input order
}

type addJob struct {
	index int
	url   string
}

type addOutcome struct {
	index int
	VideoAddResult
}

// AddVideos adds urls to one playlist, looking up metadata concurrently.
//
// Each URL goes through [Library.AddVideo], so duplicates and failed lookups are reported per URL and do not stop
// the batch. Items are prepended as their lookups finish, so their order in the playlist follows completion.
func (l *Library) AddVideos(ctx context.Context, prog chan<- ProgressUpdate, urls []string, opts BulkAddOpts) (*BulkAddResult, error) {
	playlist, err := l.Playlist(opts.Playlist)
	if err != nil {
		return nil, err
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	result := &BulkAddResult{
		Total:   len(urls),
		Results: make([]VideoAddResult, len(urls)),
	}

	jobs := make(chan addJob, len(urls))
	done := make(chan addOutcome, len(urls))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := ctx.Err(); err != nil {
					done <- addOutcome{job.index, VideoAddResult{URL: job.url, Error: err}}
					continue
				}

				item, err := l.AddVideo(ctx, AddVideoInput{Playlist: playlist.ID, URL: job.url, Tags: opts.Tags})
				done <- addOutcome{job.index, VideoAddResult{URL: job.url, Item: item, Error: err}}
			}
		}()
	}

	for i, u := range urls {
		sendProgress(prog, lookupUpdate(i+1, len(urls), u))
		jobs <- addJob{index: i, url: u}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for res := range done {
		completed++
		result.Results[res.index] = res.VideoAddResult

		if res.Error == nil {
			result.Added++
			sendProgress(prog, addedVideoUpdate(completed, len(urls), res.Item.DisplayTitle()))
		} else {
			result.Failed++
			sendProgress(prog, addFailedUpdate(completed, len(urls), res.URL, res.Error))
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("bulk add interrupted: %w", ctx.Err())
	}
	return result, nil
}
