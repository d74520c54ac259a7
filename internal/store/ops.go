package store

import (
	"slices"
	"strings"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/tags"
)

// VideoPatch lists the fields to overwrite on an item. Nil fields are left as they are.
//
// Tags replaces the whole tag list when non-nil; pass an empty slice to clear it.
type VideoPatch struct {
	URL          *string
	VideoID      *string
	Title        *string
	ThumbnailURL *string
	SourceTitle  *string
	Tags         []string
}

// Apply returns a copy of item with the patch merged in.
func (p VideoPatch) Apply(item *models.VideoItem) *models.VideoItem {
	next := item.Clone()
	if p.URL != nil {
		next.URL = *p.URL
	}
	if p.VideoID != nil {
		next.VideoID = *p.VideoID
	}
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.ThumbnailURL != nil {
		next.ThumbnailURL = *p.ThumbnailURL
	}
	if p.SourceTitle != nil {
		next.SourceTitle = *p.SourceTitle
	}
	if p.Tags != nil {
		next.Tags = tags.Dedupe(p.Tags)
	}
	return next
}

// UpsertPlaylist replaces the playlist with the same id, or inserts it at the front.
func UpsertPlaylist(state *models.CollectionState, playlist *models.Playlist) *models.CollectionState {
	if playlist == nil {
		return state
	}

	i, existing := state.FindPlaylist(playlist.ID)
	if existing == playlist {
		return state
	}

	if i < 0 {
		return state.WithPlaylists(append([]*models.Playlist{playlist}, state.Playlists...))
	}

	playlists := slices.Clone(state.Playlists)
	playlists[i] = playlist
	return state.WithPlaylists(playlists)
}

// RenamePlaylist sets the trimmed name on the playlist. Blank names and unknown ids are ignored.
func RenamePlaylist(state *models.CollectionState, id, name string) *models.CollectionState {
	name = strings.TrimSpace(name)
	_, playlist := state.FindPlaylist(id)
	if playlist == nil || name == "" || playlist.Name == name {
		return state
	}

	renamed := *playlist
	renamed.Name = name
	return UpsertPlaylist(state, &renamed)
}

// SelectPlaylist makes id the selected playlist when it exists.
func SelectPlaylist(state *models.CollectionState, id string) *models.CollectionState {
	if state.SelectedPlaylistID == id {
		return state
	}
	if _, playlist := state.FindPlaylist(id); playlist == nil {
		return state
	}

	next := *state
	next.SelectedPlaylistID = id
	return &next
}

// AddVideoToPlaylist prepends item to the playlist.
//
// No-op when the playlist is missing or already holds an item with the same dedup key.
func AddVideoToPlaylist(state *models.CollectionState, playlistID string, item *models.VideoItem) *models.CollectionState {
	_, playlist := state.FindPlaylist(playlistID)
	if playlist == nil || item == nil || playlist.HasDedupKey(item.DedupKey()) {
		return state
	}

	items := make([]*models.VideoItem, 0, len(playlist.Items)+1)
	items = append(items, item)
	items = append(items, playlist.Items...)
	return UpsertPlaylist(state, playlist.WithItems(items))
}

// DedupeItems drops every item whose dedup key already appeared earlier in the playlist.
//
// Returns the same pointer when nothing is dropped.
func DedupeItems(playlist *models.Playlist) *models.Playlist {
	seen := make(map[string]bool, len(playlist.Items))
	var kept []*models.VideoItem
	for i, item := range playlist.Items {
		key := item.DedupKey()
		if seen[key] {
			if kept == nil {
				kept = append(make([]*models.VideoItem, 0, len(playlist.Items)), playlist.Items[:i]...)
			}
			continue
		}
		seen[key] = true
		if kept != nil {
			kept = append(kept, item)
		}
	}
	if kept == nil {
		return playlist
	}
	return playlist.WithItems(kept)
}

// RemoveVideoFromPlaylist drops the item with itemID from the playlist.
func RemoveVideoFromPlaylist(state *models.CollectionState, playlistID, itemID string) *models.CollectionState {
	_, playlist := state.FindPlaylist(playlistID)
	if playlist == nil {
		return state
	}

	i, _ := playlist.FindItem(itemID)
	if i < 0 {
		return state
	}

	return UpsertPlaylist(state, playlist.WithItems(slices.Delete(slices.Clone(playlist.Items), i, i+1)))
}

// UpdateVideoInPlaylist merges patch onto the matching item.
func UpdateVideoInPlaylist(state *models.CollectionState, playlistID, itemID string, patch VideoPatch) *models.CollectionState {
	_, playlist := state.FindPlaylist(playlistID)
	if playlist == nil {
		return state
	}

	i, item := playlist.FindItem(itemID)
	if item == nil {
		return state
	}

	items := slices.Clone(playlist.Items)
	items[i] = patch.Apply(item)
	return UpsertPlaylist(state, playlist.WithItems(items))
}

// MoveVideo removes the item from one playlist and adds it to another.
//
// No-op when fromID == toID, either playlist is missing, or the item is not in the source.
// If the destination already holds the item's dedup key the item is dropped: it leaves the source and
// does not appear in the destination.
func MoveVideo(state *models.CollectionState, fromID, toID, itemID string) *models.CollectionState {
	if fromID == toID {
		return state
	}

	_, from := state.FindPlaylist(fromID)
	_, to := state.FindPlaylist(toID)
	if from == nil || to == nil {
		return state
	}

	_, item := from.FindItem(itemID)
	if item == nil {
		return state
	}

	next := RemoveVideoFromPlaylist(state, fromID, itemID)
	return AddVideoToPlaylist(next, toID, item)
}

// Collides reports whether moving itemID from fromID to toID would drop it at the destination.
func Collides(state *models.CollectionState, fromID, toID, itemID string) bool {
	if fromID == toID {
		return false
	}
	_, from := state.FindPlaylist(fromID)
	_, to := state.FindPlaylist(toID)
	if from == nil || to == nil {
		return false
	}
	_, item := from.FindItem(itemID)
	return item != nil && to.HasDedupKey(item.DedupKey())
}
