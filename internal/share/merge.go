package share

import (
	"fmt"
	"strings"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
)

// Mode decides how imported playlists join the current collection.
type Mode string

const (
	ModeReplace Mode = "replace"
	ModeMerge   Mode = "merge"
)

// ParseMode maps a flag or request value to a [Mode]. Blank means merge.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMerge, "":
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("%w: import mode %q", shared.ErrInvalidArgument, s)
	}
}

// ApplyImport folds imported into current.
//
// Replace swaps the playlists wholesale, keeping current when the import holds none. Merge appends every imported
// playlist after the current ones, renaming each whose name collides (trimmed, case-insensitive) with one already
// present to "Name (2)", "Name (3)" and so on.
func ApplyImport(current, imported *models.CollectionState, mode Mode) *models.CollectionState {
	if imported == nil || len(imported.Playlists) == 0 {
		return current
	}

	if mode == ModeReplace {
		next := current.WithPlaylists(imported.Playlists)
		next.SelectedPlaylistID = imported.SelectedPlaylistID
		if _, p := next.FindPlaylist(next.SelectedPlaylistID); p == nil {
			next.SelectedPlaylistID = next.Playlists[0].ID
		}
		return next
	}

	names := make(map[string]bool, len(current.Playlists)+len(imported.Playlists))
	for _, p := range current.Playlists {
		names[nameKey(p.Name)] = true
	}

	playlists := make([]*models.Playlist, 0, len(current.Playlists)+len(imported.Playlists))
	playlists = append(playlists, current.Playlists...)
	for _, p := range imported.Playlists {
		name := uniqueName(p.Name, names)
		names[nameKey(name)] = true
		if name != p.Name {
			renamed := *p
			renamed.Name = name
			p = &renamed
		}
		playlists = append(playlists, p)
	}

	return current.WithPlaylists(playlists)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func uniqueName(name string, taken map[string]bool) string {
	if !taken[nameKey(name)] {
		return name
	}
	base := strings.TrimSpace(name)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if !taken[nameKey(candidate)] {
			return candidate
		}
	}
}
