package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/store"
	"github.com/desertthunder/vidshelf/internal/tasks"
	tu "github.com/desertthunder/vidshelf/internal/testing"
)

func newTestServer(t *testing.T) (*httptest.Server, *tasks.Library) {
	t.Helper()

	st := store.New(tu.NewMemoryBlobs(), store.Options{IDs: &tu.SequentialIDs{}, Clock: tu.NewFixedClock(tu.Epoch)})
	fetcher := &tu.StubFetcher{Results: map[string]models.Metadata{
		"https://youtube.com/watch?v=aaaaaaaaaaa": {Title: "Gophers"},
	}}
	lib := tasks.NewLibrary(st, fetcher, nil, tasks.LibraryOpts{MaxUndo: 10, BaseURL: "https://shelf.test/"})

	srv := httptest.NewServer(NewRouter(lib, nil))
	t.Cleanup(srv.Close)
	return srv, lib
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var out any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if m, ok := out.(map[string]any); ok {
		return resp, m
	}
	return resp, map[string]any{"list": out}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("unexpected health response %d %v", resp.StatusCode, body)
	}

	resp, _ = do(t, srv, http.MethodPost, "/healthz", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
	if allow := resp.Header.Get("Allow"); allow != "GET" {
		t.Errorf("expected Allow GET, got %q", allow)
	}
}

func TestAPIState(t *testing.T) {
	srv, lib := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/api/state", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["selectedPlaylistId"] != lib.State().SelectedPlaylistID {
		t.Errorf("unexpected selection %v", body["selectedPlaylistId"])
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/state", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodGet, "/api/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAPIVideos(t *testing.T) {
	srv, lib := newTestServer(t)

	t.Run("adds to the selected playlist", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodPost, "/api/videos",
			`{"url":"https://www.youtube.com/watch?v=aaaaaaaaaaa&feature=share","tags":["Music"]}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d %v", resp.StatusCode, body)
		}
		if body["title"] != "Gophers" || body["videoId"] != "aaaaaaaaaaa" {
			t.Errorf("unexpected item %v", body)
		}
		if got := len(lib.State().Selected().Items); got != 1 {
			t.Errorf("expected 1 item, got %d", got)
		}
	})

	t.Run("duplicate conflicts", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodPost, "/api/videos", `{"url":"https://youtu.be/aaaaaaaaaaa"}`)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d %v", resp.StatusCode, body)
		}
	})

	t.Run("unknown playlist", func(t *testing.T) {
		resp, _ := do(t, srv, http.MethodPost, "/api/videos", `{"playlist":"missing","url":"https://example.com/x"}`)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodPost, "/api/videos", `{"url":`)
		if resp.StatusCode != http.StatusBadRequest || body["error"] == nil {
			t.Errorf("expected 400 with error, got %d %v", resp.StatusCode, body)
		}
	})

	t.Run("search", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodGet, "/api/search?q=%23music&playlist=*", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		hits, _ := body["list"].([]any)
		if len(hits) != 1 {
			t.Fatalf("expected 1 hit, got %v", body)
		}
		hit := hits[0].(map[string]any)
		if hit["playlistName"] != models.DefaultPlaylistName {
			t.Errorf("unexpected hit %v", hit)
		}

		_, body = do(t, srv, http.MethodGet, "/api/search?q=%23jazz", "")
		if hits, _ := body["list"].([]any); len(hits) != 0 {
			t.Errorf("expected no hits, got %v", hits)
		}
	})

	t.Run("undo and redo", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodPost, "/api/undo", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d %v", resp.StatusCode, body)
		}
		if got := len(lib.State().Selected().Items); got != 0 {
			t.Errorf("expected undo to remove the item, got %d", got)
		}

		resp, _ = do(t, srv, http.MethodPost, "/api/redo", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		resp, _ = do(t, srv, http.MethodPost, "/api/redo", "")
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409 with nothing to redo, got %d", resp.StatusCode)
		}
	})
}

func TestAPIShareImport(t *testing.T) {
	srv, lib := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/videos", `{"url":"https://example.com/talk","title":"Talk"}`)

	resp, body := do(t, srv, http.MethodPost, "/api/share", `{"scope":"all"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	link, _ := body["link"].(string)
	if !strings.HasPrefix(token, "v1.") || !strings.HasPrefix(link, "https://shelf.test/#/import?d=") {
		t.Fatalf("unexpected share response %v", body)
	}

	resp, body = do(t, srv, http.MethodPost, "/api/import", fmt.Sprintf(`{"text":%q}`, "look: "+link))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", resp.StatusCode, body)
	}
	if body["mode"] != "merge" || body["videos"] != float64(1) {
		t.Errorf("unexpected import response %v", body)
	}
	if got := len(lib.State().Playlists); got != 2 {
		t.Errorf("expected merged playlist, got %d playlists", got)
	}

	tc := []struct {
		name string
		body string
	}{
		{name: "garbage token", body: `{"text":"v1.!!!"}`},
		{name: "no payload", body: `{"text":"hello"}`},
		{name: "bad mode", body: `{"text":"` + token + `","mode":"append"}`},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, srv, http.MethodPost, "/api/import", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/share", `{"scope":"everything"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad scope, got %d", resp.StatusCode)
	}
}

func TestAPIPlaylistsAndIntent(t *testing.T) {
	srv, lib := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/playlists", `{"name":"Talks"}`)
	if resp.StatusCode != http.StatusCreated || body["name"] != "Talks" {
		t.Fatalf("unexpected create response %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPost, "/api/intent", `{"text":"https://shelf.test/#/?add=1&text=watch%20this%20https%3A%2F%2Fexample.com%2Ftalk"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", resp.StatusCode, body)
	}
	if lib.State().Selected().Name != "Talks" || len(lib.State().Selected().Items) != 1 {
		t.Errorf("expected intent to land in the new playlist")
	}
}

func TestStatusFor(t *testing.T) {
	tc := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", shared.ErrPlaylistNotFound), http.StatusNotFound},
		{shared.ErrDuplicateVideo, http.StatusConflict},
		{shared.ErrTimeout, http.StatusGatewayTimeout},
		{fmt.Errorf("%w: %w", shared.ErrMetadataLookup, shared.ErrAPIRequest), http.StatusBadGateway},
		{shared.ErrMalformedImportToken, http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tc {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRouterMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := NewBasicRouter()
	r.Use(mark("outer"), mark("inner"))
	r.HandleFunc(http.MethodGet, "/x", func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if strings.Join(order, ",") != "outer,inner,handler" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestRecover(t *testing.T) {
	h := Recover(shared.DiscardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
