package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/tags"
)

// DefaultKey is the blob store key holding the collection record.
const DefaultKey = "vidshelf.collection"

// ID prefixes for minted identifiers.
const (
	PlaylistPrefix = "pl"
	VideoPrefix    = "v"
)

// BlobStore is an opaque key-value store for serialized records.
//
// Get reports ok=false when the key has never been set.
type BlobStore interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
}

// Store creates entities and persists the collection. Mutation rules live in the package-level operations.
type Store struct {
	blobs  BlobStore
	key    string
	ids    shared.IDGenerator
	clock  shared.Clock
	logger *log.Logger
}

// Options configures a [Store]. Zero values fall back to defaults.
type Options struct {
	Key    string
	IDs    shared.IDGenerator
	Clock  shared.Clock
	Logger *log.Logger
}

// New creates a [Store] backed by blobs.
func New(blobs BlobStore, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Clock == nil {
		opts.Clock = shared.SystemClock
	}
	if opts.IDs == nil {
		opts.IDs = shared.NewRandomIDs(opts.Clock)
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}

	return &Store{
		blobs:  blobs,
		key:    opts.Key,
		ids:    opts.IDs,
		clock:  opts.Clock,
		logger: opts.Logger,
	}
}

// IDs returns the identifier generator used by the store.
func (s *Store) IDs() shared.IDGenerator { return s.ids }

// Clock returns the clock used by the store.
func (s *Store) Clock() shared.Clock { return s.clock }

// Now returns the current time as a [models.Timestamp].
func (s *Store) Now() models.Timestamp {
	return models.TimestampOf(s.clock.Now())
}

// NewPlaylist creates an empty playlist with a fresh id. A blank name becomes [models.DefaultPlaylistName].
func (s *Store) NewPlaylist(name string) *models.Playlist {
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.DefaultPlaylistName
	}
	return models.NewPlaylist(s.ids.NewID(PlaylistPrefix), name, s.Now())
}

// ItemInput holds the caller-supplied fields of a new video.
type ItemInput struct {
	URL          string
	VideoID      string
	Title        string
	ThumbnailURL string
	SourceTitle  string
	Tags         []string
}

// NewVideoItem creates an item with a fresh id, the current time, and deduplicated tags.
func (s *Store) NewVideoItem(in ItemInput) *models.VideoItem {
	return &models.VideoItem{
		ID:           s.ids.NewID(VideoPrefix),
		URL:          in.URL,
		VideoID:      in.VideoID,
		Title:        in.Title,
		ThumbnailURL: in.ThumbnailURL,
		SourceTitle:  in.SourceTitle,
		Tags:         tags.Dedupe(in.Tags),
		AddedAt:      s.Now(),
	}
}

// Seed returns a collection holding one selected "Favorites" playlist.
func (s *Store) Seed() *models.CollectionState {
	playlist := s.NewPlaylist(models.DefaultPlaylistName)
	return &models.CollectionState{
		Version:            models.StateVersion,
		SelectedPlaylistID: playlist.ID,
		Playlists:          []*models.Playlist{playlist},
	}
}

// CreatePlaylist inserts a new playlist at the front and selects it.
func (s *Store) CreatePlaylist(state *models.CollectionState, name string) (*models.CollectionState, *models.Playlist) {
	playlist := s.NewPlaylist(name)
	next := UpsertPlaylist(state, playlist)
	return SelectPlaylist(next, playlist.ID), playlist
}

// DeletePlaylist removes the playlist with id.
//
// Removing the last playlist seeds a fresh default. Removing the selected playlist selects the new first one.
func (s *Store) DeletePlaylist(state *models.CollectionState, id string) *models.CollectionState {
	i, playlist := state.FindPlaylist(id)
	if playlist == nil {
		return state
	}

	playlists := slices.Delete(slices.Clone(state.Playlists), i, i+1)
	if len(playlists) == 0 {
		playlists = []*models.Playlist{s.NewPlaylist(models.DefaultPlaylistName)}
	}

	next := state.WithPlaylists(playlists)
	if _, selected := next.FindPlaylist(next.SelectedPlaylistID); selected == nil {
		next.SelectedPlaylistID = playlists[0].ID
	}
	return next
}

// Remint returns a copy of state in which every playlist and item has a fresh id.
//
// The selection follows the playlist it pointed at.
func (s *Store) Remint(state *models.CollectionState) *models.CollectionState {
	playlists := make([]*models.Playlist, len(state.Playlists))
	selected := ""
	for i, p := range state.Playlists {
		items := make([]*models.VideoItem, len(p.Items))
		for j, item := range p.Items {
			c := item.Clone()
			c.ID = s.ids.NewID(VideoPrefix)
			items[j] = c
		}
		next := p.WithItems(items)
		next.ID = s.ids.NewID(PlaylistPrefix)
		if p.ID == state.SelectedPlaylistID {
			selected = next.ID
		}
		playlists[i] = next
	}

	out := state.WithPlaylists(playlists)
	out.SelectedPlaylistID = selected
	return s.Repair(out)
}

// Repair restores the non-empty, valid-selection and per-playlist dedup invariants.
func (s *Store) Repair(state *models.CollectionState) *models.CollectionState {
	if len(state.Playlists) == 0 {
		return s.Seed()
	}

	var playlists []*models.Playlist
	for i, p := range state.Playlists {
		next := DedupeItems(p)
		if next != p && playlists == nil {
			playlists = append(make([]*models.Playlist, 0, len(state.Playlists)), state.Playlists[:i]...)
		}
		if playlists != nil {
			playlists = append(playlists, next)
		}
	}
	if playlists != nil {
		s.logger.Warn("dropped duplicate videos from stored playlists")
		state = state.WithPlaylists(playlists)
	}
	if _, selected := state.FindPlaylist(state.SelectedPlaylistID); selected == nil {
		next := *state
		next.SelectedPlaylistID = state.Playlists[0].ID
		return &next
	}
	return state
}

// Load reads the collection from the blob store.
//
// An absent, unreadable, or malformed record yields a freshly seeded collection; the problem is logged, not returned.
func (s *Store) Load() *models.CollectionState {
	data, ok, err := s.blobs.Get(s.key)
	if err != nil {
		s.logger.Warn("failed to read collection, starting fresh", "key", s.key, "err", err)
		return s.Seed()
	}
	if !ok {
		s.logger.Debug("no stored collection, seeding default", "key", s.key)
		return s.Seed()
	}

	state, err := ParseState(data)
	if err != nil {
		s.logger.Warn("discarding stored collection", "key", s.key, "err", err)
		return s.Seed()
	}

	return s.Repair(state)
}

// Save writes the whole collection as one record.
func (s *Store) Save(state *models.CollectionState) error {
	data, err := MarshalState(state, false)
	if err != nil {
		return err
	}
	if err := s.blobs.Set(s.key, data); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

// ParseState decodes and validates a persisted record or export file.
//
// Errors wrap [shared.ErrMalformedPersistedState].
func ParseState(data []byte) (*models.CollectionState, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: record is not a JSON object", shared.ErrMalformedPersistedState)
	}

	var state models.CollectionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrMalformedPersistedState, err)
	}

	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrMalformedPersistedState, err)
	}

	return &state, nil
}

// MarshalState encodes state in the persisted record format.
func MarshalState(state *models.CollectionState, pretty bool) ([]byte, error) {
	data, err := shared.MarshalJSON(state, pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	return data, nil
}
