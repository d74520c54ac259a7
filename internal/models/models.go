// package models defines the collection data model
package models

import (
	"fmt"
	"strings"
	"time"
)

// StateVersion is the only persisted record version understood by this build.
const StateVersion = 1

// DefaultPlaylistName names the playlist seeded into an empty collection.
const DefaultPlaylistName = "Favorites"

// Timestamp is a point in time in milliseconds since the Unix epoch.
type Timestamp int64

// TimestampOf converts t to a [Timestamp].
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time converts the timestamp back to a [time.Time].
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts))
}

// VideoItem is a single saved video reference.
type VideoItem struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	VideoID      string    `json:"videoId,omitempty"`
	Title        string    `json:"title,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	SourceTitle  string    `json:"sourceTitle,omitempty"`
	Tags         []string  `json:"tags"`
	AddedAt      Timestamp `json:"addedAt"`
}

// DedupKey returns the provider video id when known, otherwise the normalized URL.
func (v *VideoItem) DedupKey() string {
	if v.VideoID != "" {
		return v.VideoID
	}
	return v.URL
}

// DisplayTitle returns the title, the source title, or the URL, whichever is set first.
func (v *VideoItem) DisplayTitle() string {
	switch {
	case v.Title != "":
		return v.Title
	case v.SourceTitle != "":
		return v.SourceTitle
	default:
		return v.URL
	}
}

// Clone returns a copy that shares no slices with v.
func (v *VideoItem) Clone() *VideoItem {
	c := *v
	c.Tags = append(make([]string, 0, len(v.Tags)), v.Tags...)
	return &c
}

// Validate checks the fields a persisted item must carry.
func (v *VideoItem) Validate() error {
	if v == nil {
		return fmt.Errorf("item is null")
	}
	if v.ID == "" {
		return fmt.Errorf("item id is required")
	}
	if strings.TrimSpace(v.URL) == "" {
		return fmt.Errorf("item %s: url is required", v.ID)
	}
	if v.Tags == nil {
		return fmt.Errorf("item %s: tags must be an array", v.ID)
	}
	return nil
}

// Playlist is a named list of videos ordered most-recently-added first.
type Playlist struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt Timestamp    `json:"createdAt"`
	Items     []*VideoItem `json:"items"`
}

// NewPlaylist creates an empty playlist.
func NewPlaylist(id, name string, createdAt Timestamp) *Playlist {
	return &Playlist{ID: id, Name: name, CreatedAt: createdAt, Items: []*VideoItem{}}
}

// FindItem returns the index and item with the given id, or -1 and nil.
func (p *Playlist) FindItem(itemID string) (int, *VideoItem) {
	for i, item := range p.Items {
		if item.ID == itemID {
			return i, item
		}
	}
	return -1, nil
}

// HasDedupKey reports whether any item in the playlist has the given dedup key.
func (p *Playlist) HasDedupKey(key string) bool {
	for _, item := range p.Items {
		if item.DedupKey() == key {
			return true
		}
	}
	return false
}

// WithItems returns a shallow copy of p holding items.
func (p *Playlist) WithItems(items []*VideoItem) *Playlist {
	c := *p
	c.Items = items
	return &c
}

// Validate checks the playlist and each of its items.
func (p *Playlist) Validate() error {
	if p == nil {
		return fmt.Errorf("playlist is null")
	}
	if p.ID == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.Items == nil {
		return fmt.Errorf("playlist %s: items must be an array", p.ID)
	}
	for _, item := range p.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("playlist %s: %w", p.ID, err)
		}
	}
	return nil
}

// CollectionState is the complete collection.
type CollectionState struct {
	Version            int         `json:"version"`
	SelectedPlaylistID string      `json:"selectedPlaylistId"`
	Playlists          []*Playlist `json:"playlists"`
}

// FindPlaylist returns the index and playlist with the given id, or -1 and nil.
func (s *CollectionState) FindPlaylist(id string) (int, *Playlist) {
	for i, p := range s.Playlists {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

// Selected returns the selected playlist, or the first playlist when the selection is dangling.
func (s *CollectionState) Selected() *Playlist {
	if _, p := s.FindPlaylist(s.SelectedPlaylistID); p != nil {
		return p
	}
	if len(s.Playlists) > 0 {
		return s.Playlists[0]
	}
	return nil
}

// WithPlaylists returns a shallow copy of s holding playlists.
func (s *CollectionState) WithPlaylists(playlists []*Playlist) *CollectionState {
	c := *s
	c.Playlists = playlists
	return &c
}

// ItemCount returns the number of items across all playlists.
func (s *CollectionState) ItemCount() int {
	n := 0
	for _, p := range s.Playlists {
		n += len(p.Items)
	}
	return n
}

// Validate checks the version discriminator and the shape of every playlist.
//
// An empty playlist list and a dangling selection are accepted here; the store repairs both on load.
func (s *CollectionState) Validate() error {
	if s.Version != StateVersion {
		return fmt.Errorf("unsupported version %d", s.Version)
	}
	if s.Playlists == nil {
		return fmt.Errorf("playlists must be an array")
	}
	seen := make(map[string]bool, len(s.Playlists))
	for _, p := range s.Playlists {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate playlist id %s", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// Metadata is what a lookup service knows about a video URL. Any field may be empty.
type Metadata struct {
	Title        string `json:"title,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Author       string `json:"author,omitempty"`
}
