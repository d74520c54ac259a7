package share

import (
	"bytes"
	"cmp"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/vidshelf/internal/links"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/store"
	"github.com/desertthunder/vidshelf/internal/tags"
)

// TokenPrefix marks the token format version.
const TokenPrefix = "v1."

// ImportedPlaylistName labels decoded playlists that carry no name.
const ImportedPlaylistName = "Imported playlist"

// Scope selects which playlists are shared.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeSelected Scope = "selected"
)

// ParseScope maps a config or flag value to a [Scope].
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeAll:
		return ScopeAll, nil
	case ScopeSelected, "":
		return ScopeSelected, nil
	default:
		return "", fmt.Errorf("%w: scope %q", shared.ErrInvalidArgument, s)
	}
}

// Options controls what [Codec.Encode] puts in a token.
type Options struct {
	Scope             Scope
	IncludeThumbnails bool
}

var (
	encoding = base64.RawURLEncoding
	reToken  = regexp.MustCompile(`^v1\.[A-Za-z0-9_-]+$`)
)

type wireState struct {
	V int             `json:"v"`
	P *[]wirePlaylist `json:"p"`
}

type wirePlaylist struct {
	N string     `json:"n,omitempty"`
	C *int64     `json:"c,omitempty"`
	I []wireItem `json:"i"`
}

type wireItem struct {
	U string   `json:"u"`
	V string   `json:"v,omitempty"`
	T string   `json:"t,omitempty"`
	H string   `json:"h,omitempty"`
	S string   `json:"s,omitempty"`
	G []string `json:"g,omitempty"`
	A *int64   `json:"a,omitempty"`
}

// Codec encodes and decodes share tokens.
type Codec struct {
	compressor Compressor
	ids        shared.IDGenerator
	clock      shared.Clock
}

// NewCodec creates a [Codec]. A nil compressor uses [NewFlateCompressor].
func NewCodec(compressor Compressor, ids shared.IDGenerator, clock shared.Clock) *Codec {
	if compressor == nil {
		compressor = NewFlateCompressor()
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	if ids == nil {
		ids = shared.NewRandomIDs(clock)
	}
	return &Codec{compressor: compressor, ids: ids, clock: clock}
}

// Encode packs the playlists chosen by opts into a token.
func (c *Codec) Encode(state *models.CollectionState, opts Options) (string, error) {
	var playlists []*models.Playlist
	switch opts.Scope {
	case ScopeAll:
		playlists = state.Playlists
	default:
		if selected := state.Selected(); selected != nil {
			playlists = []*models.Playlist{selected}
		}
	}
	if len(playlists) == 0 {
		return "", fmt.Errorf("%w: nothing to share", shared.ErrInvalidInput)
	}

	wire := make([]wirePlaylist, 0, len(playlists))
	for _, p := range playlists {
		wire = append(wire, project(p, opts.IncludeThumbnails))
	}

	data, err := json.Marshal(wireState{V: models.StateVersion, P: &wire})
	if err != nil {
		return "", fmt.Errorf("failed to encode share payload: %w", err)
	}

	compressed, err := c.compressor.Compress(data)
	if err != nil {
		return "", err
	}

	return TokenPrefix + encoding.EncodeToString(compressed), nil
}

func project(p *models.Playlist, thumbnails bool) wirePlaylist {
	createdAt := int64(p.CreatedAt)
	out := wirePlaylist{N: p.Name, C: &createdAt, I: make([]wireItem, 0, len(p.Items))}
	for _, item := range p.Items {
		addedAt := int64(item.AddedAt)
		w := wireItem{
			U: item.URL,
			V: item.VideoID,
			T: item.Title,
			S: item.SourceTitle,
			A: &addedAt,
		}
		if len(item.Tags) > 0 {
			w.G = item.Tags
		}
		if thumbnails {
			w.H = item.ThumbnailURL
		}
		out.I = append(out.I, w)
	}
	return out
}

// Decode unpacks a token into a collection with freshly minted ids. The first playlist is selected.
//
// Every failure wraps [shared.ErrMalformedImportToken].
func (c *Codec) Decode(token string) (*models.CollectionState, error) {
	token = strings.TrimSpace(token)
	body, ok := strings.CutPrefix(token, TokenPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: %w", shared.ErrMalformedImportToken, shared.ErrUnsupportedTokenFormat)
	}

	compressed, err := encoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedImportToken, err)
	}

	data, err := c.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedImportToken, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: payload is not a JSON object", shared.ErrMalformedImportToken)
	}

	var wire wireState
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedImportToken, err)
	}
	if wire.V != models.StateVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", shared.ErrMalformedImportToken, wire.V)
	}
	if wire.P == nil {
		return nil, fmt.Errorf("%w: playlists must be an array", shared.ErrMalformedImportToken)
	}
	if len(*wire.P) == 0 {
		return nil, fmt.Errorf("%w: %w", shared.ErrMalformedImportToken, shared.ErrEmptyImport)
	}

	now := models.TimestampOf(c.clock.Now())
	playlists := make([]*models.Playlist, 0, len(*wire.P))
	for _, wp := range *wire.P {
		playlists = append(playlists, c.restore(wp, now))
	}

	return &models.CollectionState{
		Version:            models.StateVersion,
		SelectedPlaylistID: playlists[0].ID,
		Playlists:          playlists,
	}, nil
}

func (c *Codec) restore(wp wirePlaylist, now models.Timestamp) *models.Playlist {
	name := strings.TrimSpace(wp.N)
	if name == "" {
		name = ImportedPlaylistName
	}

	p := models.NewPlaylist(c.ids.NewID(store.PlaylistPrefix), name, orNow(wp.C, now))
	for _, wi := range wp.I {
		raw := strings.TrimSpace(wi.U)
		if raw == "" {
			continue
		}
		norm := links.Normalize(raw)
		item := &models.VideoItem{
			URL:          norm.URL,
			VideoID:      cmp.Or(wi.V, norm.VideoID),
			Title:        wi.T,
			ThumbnailURL: wi.H,
			SourceTitle:  wi.S,
			Tags:         tags.Dedupe(wi.G),
			AddedAt:      orNow(wi.A, now),
		}
		// First occurrence wins, matching the newest-first item order.
		if p.HasDedupKey(item.DedupKey()) {
			continue
		}
		item.ID = c.ids.NewID(store.VideoPrefix)
		p.Items = append(p.Items, item)
	}
	return p
}

func orNow(ts *int64, now models.Timestamp) models.Timestamp {
	if ts == nil {
		return now
	}
	return models.Timestamp(*ts)
}

// ExtractPayload finds a share token in pasted text.
//
// It accepts a bare token, a link whose fragment carries d= (the "#/import?d=" form), or a link whose query string
// carries d=.
func ExtractPayload(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if reToken.MatchString(text) {
		return text, true
	}

	if q, ok := links.FragmentQuery(text); ok {
		if values, err := url.ParseQuery(q); err == nil {
			if token := values.Get("d"); reToken.MatchString(token) {
				return token, true
			}
		}
	}

	u, err := url.Parse(text)
	if err != nil {
		return "", false
	}
	if token := u.Query().Get("d"); reToken.MatchString(token) {
		return token, true
	}
	return "", false
}

// BuildLink returns the import link for token under baseURL.
func BuildLink(baseURL, token string) string {
	base, _, _ := strings.Cut(baseURL, "#")
	return base + "#/import?d=" + token
}
