package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/vidshelf/internal/formatter"
	"github.com/desertthunder/vidshelf/internal/models"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, txt
	OutputDir  string           // Base output directory (default: vidshelf_export_{epoch})
	Playlists  []string         // Playlist ids or names; empty means all
	NumWorkers int              // Concurrent workers (default: 5)
	Covers     bool             // Download the first thumbnail as a Markdown cover
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   string
	PlaylistName string
	Success      bool
	Files        []string
	Error        error
}

// BulkExportResult summarizes [Library.BulkExport].
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []PlaylistExportResult
}

// BulkExport writes every requested playlist to OutputDir concurrently and finishes with a manifest.
//
// The JSON format writes each playlist as a one-playlist collection that file import accepts.
func (l *Library) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	playlists, err := l.exportTargets(opts.Playlists)
	if err != nil {
		return nil, err
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("vidshelf_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalPlaylists:  len(playlists),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(playlists)),
	}

	jobs := make(chan *models.Playlist, len(playlists))
	results := make(chan PlaylistExportResult, len(playlists))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, opts)
	}

	for i, p := range playlists {
		sendProgress(prog, exportingPlaylistUpdate(i+1, len(playlists), p.Name))
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	manifest := formatter.Manifest{
		Format:         opts.Format,
		ExportedAt:     time.Now().UTC(),
		TotalPlaylists: len(playlists),
		Playlists:      make([]formatter.ManifestEntry, 0, len(playlists)),
	}

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		entry := formatter.ManifestEntry{
			PlaylistID:   res.PlaylistID,
			PlaylistName: res.PlaylistName,
			Success:      res.Success,
			Files:        res.Files,
		}

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(playlists), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			entry.Error = res.Error.Error()
			sendProgress(prog, exportFailedUpdate(completed, len(playlists), res.PlaylistName, res.Error))
		}
		manifest.Playlists = append(manifest.Playlists, entry)
	}
	manifest.SuccessfulExports = result.SuccessfulExports
	manifest.FailedExports = result.FailedExports

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteExportManifest(manifest, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	l.logger.Info("bulk export finished", "dir", opts.OutputDir, "ok", result.SuccessfulExports, "failed", result.FailedExports)
	return result, nil
}

func (l *Library) exportTargets(refs []string) ([]*models.Playlist, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(refs) == 0 {
		return l.state.Playlists, nil
	}

	playlists := make([]*models.Playlist, 0, len(refs))
	for _, ref := range refs {
		p, err := l.resolve(ref)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan *models.Playlist,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for p := range jobs {
		if err := ctx.Err(); err != nil {
			results <- PlaylistExportResult{PlaylistID: p.ID, PlaylistName: p.Name, Error: err}
			continue
		}
		results <- exportSinglePlaylist(p, opts)
	}
}

// exportSinglePlaylist exports a single playlist to the appropriate format.
func exportSinglePlaylist(p *models.Playlist, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   p.ID,
		PlaylistName: p.Name,
		Success:      false,
		Files:        []string{},
	}

	switch opts.Format {
	case formatter.FormatCSV:
		csvRes, err := formatter.WriteCSVExport(p, filepath.Join(opts.OutputDir, p.ID))
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.VideosFile, csvRes.MetadataFile}

	case formatter.FormatMarkdown:
		var imageURL string
		if opts.Covers && len(p.Items) > 0 {
			imageURL = p.Items[0].ThumbnailURL
		}

		mdRes, err := formatter.WriteMarkdownExport(p, filepath.Join(opts.OutputDir, p.ID), imageURL)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files

	case formatter.FormatText:
		path, err := formatter.WriteTextExport(p, filepath.Join(opts.OutputDir, p.ID+"_videos.txt"))
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		jsonPath := filepath.Join(opts.OutputDir, p.ID+".json")
		data, err := formatter.ExportToJSON(&models.CollectionState{
			Version:            models.StateVersion,
			SelectedPlaylistID: p.ID,
			Playlists:          []*models.Playlist{p},
		})
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
	}

	result.Success = true
	return result
}
