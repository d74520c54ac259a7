package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/share"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/tasks"
)

const maxBodyBytes = 1 << 20

var errMethodNotAllowed = errors.New("method not allowed")

// API serves the collection held by a [tasks.Library].
type API struct {
	lib    *tasks.Library
	logger *log.Logger
}

// NewAPI returns an API backed by lib.
func NewAPI(lib *tasks.Library, logger *log.Logger) *API {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &API{lib: lib, logger: shared.WithLogger(logger, "component", "api")}
}

// NewRouter wires the API and the health probe into a [BasicRouter] with logging and panic recovery.
func NewRouter(lib *tasks.Library, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	r := NewBasicRouter()
	r.Use(Recover(logger), Logging(logger))
	r.HandleFunc(http.MethodGet, "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handler(NewAPI(lib, logger))
	return r
}

// Routes implements [Handler].
func (a *API) Routes() []string {
	return []string{"/api/"}
}

type route struct {
	method string
	fn     func(http.ResponseWriter, *http.Request)
}

func (a *API) table() map[string]route {
	return map[string]route{
		"/api/state":     {http.MethodGet, a.getState},
		"/api/search":    {http.MethodGet, a.search},
		"/api/playlists": {http.MethodPost, a.createPlaylist},
		"/api/videos":    {http.MethodPost, a.addVideo},
		"/api/intent":    {http.MethodPost, a.intent},
		"/api/share":     {http.MethodPost, a.share},
		"/api/import":    {http.MethodPost, a.importToken},
		"/api/undo":      {http.MethodPost, a.undo},
		"/api/redo":      {http.MethodPost, a.redo},
	}
}

// ServeHTTP dispatches on the request path.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt, ok := a.table()[strings.TrimSuffix(r.URL.Path, "/")]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no route for %s", r.URL.Path))
		return
	}
	if r.Method != rt.method {
		w.Header().Set("Allow", rt.method)
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	rt.fn(w, r)
}

func (a *API) getState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.lib.State())
}

// SearchHit is one search result on the wire.
type SearchHit struct {
	PlaylistID   string            `json:"playlistId"`
	PlaylistName string            `json:"playlistName"`
	Item         *models.VideoItem `json:"item"`
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hits, err := a.lib.Search(q.Get("playlist"), q.Get("q"))
	if err != nil {
		a.fail(w, err)
		return
	}

	out := make([]SearchHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, SearchHit{PlaylistID: h.Playlist.ID, PlaylistName: h.Playlist.Name, Item: h.Item})
	}
	writeJSON(w, http.StatusOK, out)
}

type createPlaylistRequest struct {
	Name string `json:"name"`
}

func (a *API) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if !a.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusCreated, a.lib.CreatePlaylist(req.Name))
}

type addVideoRequest struct {
	Playlist string   `json:"playlist"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
}

func (a *API) addVideo(w http.ResponseWriter, r *http.Request) {
	var req addVideoRequest
	if !a.decode(w, r, &req) {
		return
	}

	item, err := a.lib.AddVideo(r.Context(), tasks.AddVideoInput{
		Playlist: req.Playlist,
		URL:      req.URL,
		Title:    req.Title,
		Tags:     req.Tags,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type intentRequest struct {
	Text string `json:"text"`
}

func (a *API) intent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if !a.decode(w, r, &req) {
		return
	}

	item, err := a.lib.ApplyIntent(r.Context(), req.Text)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type shareRequest struct {
	Scope             string `json:"scope"`
	IncludeThumbnails *bool  `json:"includeThumbnails"`
}

type shareResponse struct {
	Token     string `json:"token"`
	Link      string `json:"link,omitempty"`
	Playlists int    `json:"playlists"`
	Videos    int    `json:"videos"`
}

func (a *API) share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if !a.decode(w, r, &req) {
		return
	}

	opts := a.lib.ShareOptions()
	if req.Scope != "" {
		scope, err := share.ParseScope(req.Scope)
		if err != nil {
			a.fail(w, err)
			return
		}
		opts.Scope = scope
	}
	if req.IncludeThumbnails != nil {
		opts.IncludeThumbnails = *req.IncludeThumbnails
	}

	res, err := a.lib.Share(opts)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{Token: res.Token, Link: res.Link, Playlists: res.Playlists, Videos: res.Videos})
}

type importRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

type importResponse struct {
	Mode      string `json:"mode"`
	Playlists int    `json:"playlists"`
	Videos    int    `json:"videos"`
}

func (a *API) importToken(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !a.decode(w, r, &req) {
		return
	}

	mode, err := share.ParseMode(req.Mode)
	if err != nil {
		a.fail(w, err)
		return
	}

	res, err := a.lib.Import(req.Text, mode)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Mode: string(res.Mode), Playlists: res.Playlists, Videos: res.Videos})
}

func (a *API) undo(w http.ResponseWriter, _ *http.Request) {
	if err := a.lib.Undo(); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.lib.State())
}

func (a *API) redo(w http.ResponseWriter, _ *http.Request) {
	if err := a.lib.Redo(); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.lib.State())
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return false
	}
	return true
}

func (a *API) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "error", err)
	}
	writeError(w, status, err)
}

// StatusFor maps an error to the HTTP status the API answers with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrPlaylistNotFound), errors.Is(err, shared.ErrVideoNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateVideo),
		errors.Is(err, shared.ErrNothingToUndo),
		errors.Is(err, shared.ErrNothingToRedo):
		return http.StatusConflict
	case errors.Is(err, shared.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, shared.ErrMetadataLookup), errors.Is(err, shared.ErrAPIRequest):
		return http.StatusBadGateway
	case errors.Is(err, shared.ErrMalformedImportToken),
		errors.Is(err, shared.ErrFileImport),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidFlag),
		errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
