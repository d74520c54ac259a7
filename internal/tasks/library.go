package tasks

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/links"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/services"
	"github.com/desertthunder/vidshelf/internal/share"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/store"
	"github.com/desertthunder/vidshelf/internal/tags"
)

// LibraryOpts configures a [Library].
type LibraryOpts struct {
	AllowPartial  bool          // Add videos whose metadata lookup failed
	LookupTimeout time.Duration // Bound on each metadata lookup (0 disables)
	MaxUndo       int           // Undo stack depth (0 disables undo)
	Share         share.Options // Defaults for Share
	BaseURL       string        // Prefix of generated import links
}

// Library owns the current collection and applies every mutation to it.
//
// Each mutation swaps in a new immutable snapshot, records the previous one for undo, and saves the result. A failed
// save is logged and the in-memory change stands.
type Library struct {
	mu      sync.Mutex
	store   *store.Store
	codec   *share.Codec
	fetcher services.MetadataFetcher
	history *History
	logger  *log.Logger
	opts    LibraryOpts
	state   *models.CollectionState
}

// NewLibrary loads the stored collection and returns a Library around it.
//
// A nil fetcher disables metadata lookup.
func NewLibrary(st *store.Store, fetcher services.MetadataFetcher, logger *log.Logger, opts LibraryOpts) *Library {
	if fetcher == nil {
		fetcher = services.NopFetcher{}
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	return &Library{
		store:   st,
		codec:   share.NewCodec(nil, st.IDs(), st.Clock()),
		fetcher: services.WithTimeout(fetcher, opts.LookupTimeout),
		history: NewHistory(opts.MaxUndo),
		logger:  logger,
		opts:    opts,
		state:   st.Load(),
	}
}

// State returns the current snapshot. Callers must not modify it.
func (l *Library) State() *models.CollectionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// commit swaps in next and saves it. It reports false when next is the current snapshot. Callers hold l.mu.
func (l *Library) commit(next *models.CollectionState, action string) bool {
	if next == l.state {
		return false
	}
	l.history.Push(l.state)
	l.state = next
	l.persist(action)
	return true
}

func (l *Library) persist(action string) {
	if err := l.store.Save(l.state); err != nil {
		l.logger.Error("failed to save collection", "action", action, "err", err)
		return
	}
	l.logger.Debug("collection saved", "action", action, "playlists", len(l.state.Playlists), "videos", l.state.ItemCount())
}

// resolve finds a playlist by id, then by case-insensitive name. An empty ref means the selected playlist.
func (l *Library) resolve(ref string) (*models.Playlist, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		if p := l.state.Selected(); p != nil {
			return p, nil
		}
		return nil, shared.ErrPlaylistNotFound
	}
	if _, p := l.state.FindPlaylist(ref); p != nil {
		return p, nil
	}
	for _, p := range l.state.Playlists {
		if strings.EqualFold(strings.TrimSpace(p.Name), ref) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, ref)
}

// Playlist returns the playlist matching ref (id, name, or "" for the selected one).
func (l *Library) Playlist(ref string) (*models.Playlist, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resolve(ref)
}

// CreatePlaylist adds an empty playlist at the front and selects it.
func (l *Library) CreatePlaylist(name string) *models.Playlist {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, playlist := l.store.CreatePlaylist(l.state, name)
	l.commit(next, "create_playlist")
	l.logger.Info("playlist created", "id", playlist.ID, "name", playlist.Name)
	return playlist
}

// RenamePlaylist renames the playlist matching ref.
func (l *Library) RenamePlaylist(ref, name string) (*models.Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	playlist, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}

	l.commit(store.RenamePlaylist(l.state, playlist.ID, name), "rename_playlist")
	_, renamed := l.state.FindPlaylist(playlist.ID)
	return renamed, nil
}

// DeletePlaylist removes the playlist matching ref. Deleting the last playlist leaves a fresh default in its place.
func (l *Library) DeletePlaylist(ref string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	playlist, err := l.resolve(ref)
	if err != nil {
		return err
	}

	l.commit(l.store.DeletePlaylist(l.state, playlist.ID), "delete_playlist")
	l.logger.Info("playlist deleted", "id", playlist.ID, "name", playlist.Name, "videos", len(playlist.Items))
	return nil
}

// SelectPlaylist marks the playlist matching ref as selected.
func (l *Library) SelectPlaylist(ref string) (*models.Playlist, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	playlist, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}

	l.commit(store.SelectPlaylist(l.state, playlist.ID), "select_playlist")
	return playlist, nil
}

// AddVideoInput describes a video to add.
type AddVideoInput struct {
	Playlist    string   // Playlist id or name; empty means the selected playlist
	URL         string   // Video URL in any accepted form
	Title       string   // Overrides the looked-up title when set
	SourceTitle string   // Title supplied by whoever shared the link
	Tags        []string // Initial tags
}

// AddVideo normalizes the URL, looks up its metadata, and prepends the video to the playlist.
//
// A failed lookup aborts the add unless AllowPartial is set. Adding a video already in the playlist (same video id,
// or same URL when there is no id) returns [shared.ErrDuplicateVideo].
func (l *Library) AddVideo(ctx context.Context, in AddVideoInput) (*models.VideoItem, error) {
	normalized := links.Normalize(strings.TrimSpace(in.URL))
	if normalized.URL == "" {
		return nil, fmt.Errorf("%w: not a video URL: %q", shared.ErrInvalidInput, in.URL)
	}

	key := normalized.VideoID
	if key == "" {
		key = normalized.URL
	}

	l.mu.Lock()
	playlist, err := l.resolve(in.Playlist)
	if err == nil && playlist.HasDedupKey(key) {
		err = fmt.Errorf("%w: %s", shared.ErrDuplicateVideo, normalized.URL)
	}
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	meta, err := l.fetcher.Lookup(ctx, normalized.URL)
	if err != nil {
		if !l.opts.AllowPartial {
			l.logger.Warn("metadata lookup failed, video not added", "url", normalized.URL, "err", err)
			return nil, fmt.Errorf("%w: %w", shared.ErrMetadataLookup, err)
		}
		l.logger.Warn("metadata lookup failed, adding without metadata", "url", normalized.URL, "err", err)
		meta = models.Metadata{}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = meta.Title
	}

	item := l.store.NewVideoItem(store.ItemInput{
		URL:          normalized.URL,
		VideoID:      normalized.VideoID,
		Title:        title,
		ThumbnailURL: meta.ThumbnailURL,
		SourceTitle:  strings.TrimSpace(in.SourceTitle),
		Tags:         in.Tags,
	})

	l.mu.Lock()
	defer l.mu.Unlock()

	// The playlist may have gone away while the lookup ran.
	if _, p := l.state.FindPlaylist(playlist.ID); p == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlist.ID)
	}
	if !l.commit(store.AddVideoToPlaylist(l.state, playlist.ID, item), "add_video") {
		return nil, fmt.Errorf("%w: %s", shared.ErrDuplicateVideo, normalized.URL)
	}

	l.logger.Info("video added", "playlist", playlist.Name, "url", item.URL, "title", item.Title, "author", meta.Author)
	return item, nil
}

// ApplyIntent adds the video carried by a deep link ("#/?add=1&url=...") to the selected playlist.
func (l *Library) ApplyIntent(ctx context.Context, raw string) (*models.VideoItem, error) {
	intent, ok := links.ParseAddIntent(raw)
	if !ok {
		return nil, fmt.Errorf("%w: not an add-video link", shared.ErrInvalidInput)
	}
	return l.AddVideo(ctx, AddVideoInput{URL: intent.URL, SourceTitle: intent.Title})
}

func (l *Library) findItem(ref, itemID string) (*models.Playlist, *models.VideoItem, error) {
	playlist, err := l.resolve(ref)
	if err != nil {
		return nil, nil, err
	}
	_, item := playlist.FindItem(itemID)
	if item == nil {
		return nil, nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, itemID)
	}
	return playlist, item, nil
}

// RemoveVideo deletes an item from a playlist.
func (l *Library) RemoveVideo(ref, itemID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	playlist, _, err := l.findItem(ref, itemID)
	if err != nil {
		return err
	}
	l.commit(store.RemoveVideoFromPlaylist(l.state, playlist.ID, itemID), "remove_video")
	return nil
}

// UpdateVideo applies patch to an item and returns the updated item.
func (l *Library) UpdateVideo(ref, itemID string, patch store.VideoPatch) (*models.VideoItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	playlist, _, err := l.findItem(ref, itemID)
	if err != nil {
		return nil, err
	}

	l.commit(store.UpdateVideoInPlaylist(l.state, playlist.ID, itemID, patch), "update_video")
	_, updated := l.state.FindPlaylist(playlist.ID)
	_, item := updated.FindItem(itemID)
	return item, nil
}

// TagVideo replaces the tags of an item. Tags are normalized and deduplicated.
func (l *Library) TagVideo(ref, itemID string, tagList []string) (*models.VideoItem, error) {
	return l.UpdateVideo(ref, itemID, store.VideoPatch{Tags: tags.Dedupe(tagList)})
}

// MoveResult describes the outcome of [Library.MoveVideo].
type MoveResult struct {
	Item    *models.VideoItem
	From    *models.Playlist
	To      *models.Playlist
	Dropped bool // The destination already held the video, so the item is gone from both playlists
}

// MoveVideo moves an item to the front of another playlist.
//
// When the destination already holds a video with the same dedup key the item is removed from the source and not
// added to the destination. Dropped reports that case.
func (l *Library) MoveVideo(fromRef, toRef, itemID string) (MoveResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	from, item, err := l.findItem(fromRef, itemID)
	if err != nil {
		return MoveResult{}, err
	}
	to, err := l.resolve(toRef)
	if err != nil {
		return MoveResult{}, err
	}

	dropped := store.Collides(l.state, from.ID, to.ID, itemID)
	l.commit(store.MoveVideo(l.state, from.ID, to.ID, itemID), "move_video")
	if dropped {
		l.logger.Warn("destination already has this video, item dropped", "from", from.Name, "to", to.Name, "url", item.URL)
	}

	_, from = l.state.FindPlaylist(from.ID)
	_, to = l.state.FindPlaylist(to.ID)
	return MoveResult{Item: item, From: from, To: to, Dropped: dropped}, nil
}

// SearchHit is an item matched by [Library.Search] together with its playlist.
type SearchHit struct {
	Playlist *models.Playlist
	Item     *models.VideoItem
}

// Search matches query against one playlist, or every playlist when ref is "*".
//
// The query syntax is that of [tags.ParseQuery]: "#tag" tokens must all be present and the other words must all
// appear in the title, URL or video id.
func (l *Library) Search(ref, query string) ([]SearchHit, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	playlists := l.state.Playlists
	if strings.TrimSpace(ref) != "*" {
		playlist, err := l.resolve(ref)
		if err != nil {
			return nil, err
		}
		playlists = []*models.Playlist{playlist}
	}

	q := tags.ParseQuery(query)
	hits := []SearchHit{}
	for _, p := range playlists {
		for _, item := range p.Items {
			if q.Match(item) {
				hits = append(hits, SearchHit{Playlist: p, Item: item})
			}
		}
	}
	return hits, nil
}

// ShareResult is an encoded token and the link carrying it.
type ShareResult struct {
	Token     string
	Link      string
	Playlists int
	Videos    int
}

// ShareOptions returns the configured share defaults.
func (l *Library) ShareOptions() share.Options {
	return l.opts.Share
}

// Share encodes the collection according to opts.
func (l *Library) Share(opts share.Options) (*ShareResult, error) {
	state := l.State()

	token, err := l.codec.Encode(state, opts)
	if err != nil {
		return nil, err
	}

	result := &ShareResult{Token: token, Link: share.BuildLink(l.opts.BaseURL, token)}
	if opts.Scope == share.ScopeAll {
		result.Playlists = len(state.Playlists)
		result.Videos = state.ItemCount()
	} else if p := state.Selected(); p != nil {
		result.Playlists = 1
		result.Videos = len(p.Items)
	}

	l.logger.Debug("share token built", "scope", opts.Scope, "bytes", len(token))
	return result, nil
}

// ImportResult summarizes an import.
type ImportResult struct {
	Mode      share.Mode
	Playlists int
	Videos    int
}

// Import decodes the share token found in text and folds it into the collection.
//
// Any failure leaves the collection untouched and wraps [shared.ErrMalformedImportToken].
func (l *Library) Import(text string, mode share.Mode) (*ImportResult, error) {
	token, ok := share.ExtractPayload(text)
	if !ok {
		return nil, fmt.Errorf("%w: %w", shared.ErrMalformedImportToken, shared.ErrNoSharePayload)
	}

	imported, err := l.codec.Decode(token)
	if err != nil {
		l.logger.Warn("rejected share token", "err", err)
		return nil, err
	}

	return l.apply(imported, mode, "import_token"), nil
}

// ImportJSON folds a full collection export into the collection.
//
// Merged playlists and items get fresh ids. Failures wrap [shared.ErrFileImport].
func (l *Library) ImportJSON(data []byte, mode share.Mode) (*ImportResult, error) {
	imported, err := store.ParseState(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrFileImport, err)
	}
	if len(imported.Playlists) == 0 {
		return nil, fmt.Errorf("%w: export holds no playlists", shared.ErrFileImport)
	}

	if mode == share.ModeMerge {
		imported = l.store.Remint(imported)
	} else {
		imported = l.store.Repair(imported)
	}

	return l.apply(imported, mode, "import_file"), nil
}

// ImportFile reads path and passes it to [Library.ImportJSON].
func (l *Library) ImportFile(path string, mode share.Mode) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrFileImport, err)
	}
	return l.ImportJSON(data, mode)
}

func (l *Library) apply(imported *models.CollectionState, mode share.Mode, action string) *ImportResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.commit(share.ApplyImport(l.state, imported, mode), action)
	l.logger.Info("imported playlists", "mode", mode, "count", len(imported.Playlists), "videos", imported.ItemCount())
	return &ImportResult{Mode: mode, Playlists: len(imported.Playlists), Videos: imported.ItemCount()}
}

// Replace swaps in a whole collection, such as a stored revision. It can be undone.
func (l *Library) Replace(state *models.CollectionState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commit(l.store.Repair(state), "replace")
}

// Undo restores the snapshot before the last mutation.
func (l *Library) Undo() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, ok := l.history.Undo(l.state)
	if !ok {
		return shared.ErrNothingToUndo
	}
	l.state = prev
	l.persist("undo")
	return nil
}

// Redo reapplies the last undone mutation.
func (l *Library) Redo() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, ok := l.history.Redo(l.state)
	if !ok {
		return shared.ErrNothingToRedo
	}
	l.state = next
	l.persist("redo")
	return nil
}

// CanUndo reports whether there is a mutation to undo.
func (l *Library) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history.CanUndo()
}

// CanRedo reports whether there is an undone mutation to reapply.
func (l *Library) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history.CanRedo()
}
