package tasks

import "fmt"

// ProgressUpdate reports one finished or started step of a bulk add or export.
type ProgressUpdate struct {
	Phase   Phase
	Step    int // 1-based
	Total   int
	Message string
}

// Phase names the bulk operation an update belongs to.
type Phase int

const (
	LookupMetadata Phase = iota
	AddVideos
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case LookupMetadata:
		return "lookup_metadata"
	case AddVideos:
		return "add_videos"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func lookupUpdate(step, total int, url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupMetadata,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Looking up %s...", step, total, url),
	}
}

func addedVideoUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, title),
	}
}

func addFailedUpdate(step, total int, url string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, url, err),
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
