package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/store"
	"github.com/desertthunder/vidshelf/internal/tasks"
	tu "github.com/desertthunder/vidshelf/internal/testing"
)

type sideEffects struct {
	opened []string
	copied []string
}

func newTestModel(t *testing.T) (*Model, *tasks.Library, *sideEffects) {
	t.Helper()

	st := store.New(tu.NewMemoryBlobs(), store.Options{IDs: &tu.SequentialIDs{}, Clock: tu.NewFixedClock(tu.Epoch)})
	lib := tasks.NewLibrary(st, &tu.StubFetcher{}, nil, tasks.LibraryOpts{MaxUndo: 10, BaseURL: "https://shelf.test/"})

	fx := &sideEffects{}
	m := NewModel(context.Background(), lib, Options{
		Open: func(u string) error { fx.opened = append(fx.opened, u); return nil },
		Copy: func(s string) error { fx.copied = append(fx.copied, s); return nil },
	})
	return m, lib, fx
}

// press feeds keys to the model and runs any command that produces one of the TUI's own messages.
func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()

	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}

		_, cmd := m.Update(msg)
		if k == "enter" || k == "o" || k == "c" {
			runCmd(m, cmd)
		}
	}
}

func runCmd(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if out, ok := cmd().(Msg); ok {
		m.Update(out)
	}
}

func TestPlaylistView(t *testing.T) {
	t.Run("starts on the seeded playlist", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		if m.view != PlaylistListView {
			t.Fatalf("expected playlist view, got %v", m.view)
		}
		items := m.playlists.Items()
		if len(items) != 1 {
			t.Fatalf("expected 1 playlist, got %d", len(items))
		}
		if title := items[0].(playlistItem).Title(); title != "● "+models.DefaultPlaylistName {
			t.Errorf("expected selected marker, got %q", title)
		}
	})

	t.Run("creates a playlist", func(t *testing.T) {
		m, lib, _ := newTestModel(t)
		press(t, m, "n", "Talks", "enter")

		if got := len(lib.State().Playlists); got != 2 {
			t.Fatalf("expected 2 playlists, got %d", got)
		}
		if p := m.currentPlaylist(); p == nil || p.Name != "Talks" {
			t.Errorf("expected cursor on the new playlist, got %+v", p)
		}
		if !strings.Contains(m.View(), "Created Talks") {
			t.Errorf("expected status in view")
		}
	})

	t.Run("escape cancels a prompt", func(t *testing.T) {
		m, lib, _ := newTestModel(t)
		press(t, m, "n", "Nope", "esc")
		if m.prompt != promptNone || len(lib.State().Playlists) != 1 {
			t.Errorf("expected prompt cancelled without changes")
		}
	})

	t.Run("renames", func(t *testing.T) {
		m, lib, _ := newTestModel(t)
		press(t, m, "r")
		m.input.SetValue("Keepers")
		press(t, m, "enter")
		if got := lib.State().Playlists[0].Name; got != "Keepers" {
			t.Errorf("expected rename, got %q", got)
		}
	})

	t.Run("delete asks first", func(t *testing.T) {
		m, lib, _ := newTestModel(t)
		press(t, m, "n", "Talks", "enter")

		press(t, m, "x")
		if !strings.Contains(m.View(), "Delete playlist 'Talks'") {
			t.Errorf("expected confirmation in view, got %q", m.View())
		}
		press(t, m, "n")
		if got := len(lib.State().Playlists); got != 2 {
			t.Fatalf("expected nothing deleted, got %d playlists", got)
		}

		press(t, m, "x", "y")
		if got := len(lib.State().Playlists); got != 1 {
			t.Fatalf("expected deletion, got %d playlists", got)
		}

		press(t, m, "u")
		if got := len(lib.State().Playlists); got != 2 {
			t.Errorf("expected undo to restore, got %d playlists", got)
		}
	})
}

func TestVideoView(t *testing.T) {
	m, lib, fx := newTestModel(t)
	press(t, m, "enter")
	if m.view != VideoListView {
		t.Fatalf("expected video view, got %v", m.view)
	}

	press(t, m, "a", "https://example.com/one", "enter")
	if m.busy {
		t.Errorf("expected lookup to finish")
	}
	if got := len(m.videos.Items()); got != 1 {
		t.Fatalf("expected 1 video, got %d", got)
	}

	press(t, m, "a", "https://example.com/two", "enter")
	press(t, m, "t", "music, live", "enter")
	top := m.currentVideo()
	if top == nil || top.URL != "https://example.com/two" || len(top.Tags) != 2 {
		t.Fatalf("expected tags on the newest video, got %+v", top)
	}

	t.Run("duplicate add shows an error", func(t *testing.T) {
		press(t, m, "a", "https://example.com/one", "enter")
		if m.err == nil || !strings.Contains(m.View(), "Error:") {
			t.Errorf("expected duplicate error")
		}
	})

	t.Run("search filters by tag", func(t *testing.T) {
		press(t, m, "/", "#music", "enter")
		if got := len(m.videos.Items()); got != 1 {
			t.Fatalf("expected 1 match, got %d", got)
		}
		if !strings.Contains(m.videos.Title, "matching") {
			t.Errorf("expected query in title, got %q", m.videos.Title)
		}

		press(t, m, "esc")
		if m.view != VideoListView || len(m.videos.Items()) != 2 {
			t.Errorf("expected esc to clear the query first")
		}
	})

	t.Run("opens the highlighted video", func(t *testing.T) {
		press(t, m, "o")
		if len(fx.opened) != 1 || fx.opened[0] != "https://example.com/two" {
			t.Errorf("unexpected opened urls %v", fx.opened)
		}
	})

	t.Run("moves to another playlist", func(t *testing.T) {
		lib.CreatePlaylist("Later")
		press(t, m, "m", "later", "enter")
		_, p := lib.State().FindPlaylist(m.playlistID)
		if got := len(p.Items); got != 1 {
			t.Errorf("expected 1 video left, got %d", got)
		}
		if !strings.Contains(m.status, "Moved to Later") {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("removes after confirmation", func(t *testing.T) {
		press(t, m, "x", "y")
		if got := len(m.videos.Items()); got != 0 {
			t.Errorf("expected empty playlist, got %d", got)
		}
	})

	t.Run("esc returns to playlists", func(t *testing.T) {
		press(t, m, "esc")
		if m.view != PlaylistListView {
			t.Errorf("expected playlist view, got %v", m.view)
		}
	})
}

func TestShareAndImport(t *testing.T) {
	m, lib, fx := newTestModel(t)
	if _, err := lib.AddVideo(context.Background(), tasks.AddVideoInput{URL: "https://example.com/talk"}); err != nil {
		t.Fatalf("failed to seed video: %v", err)
	}
	m.refresh()

	press(t, m, "s")
	if m.view != ShareView || m.shared == nil {
		t.Fatalf("expected share view")
	}
	if !strings.HasPrefix(m.shared.Link, "https://shelf.test/#/import?d=v1.") {
		t.Errorf("unexpected link %q", m.shared.Link)
	}
	link := m.shared.Link

	press(t, m, "c")
	if len(fx.copied) != 1 || fx.copied[0] != link {
		t.Errorf("expected link copied, got %v", fx.copied)
	}

	press(t, m, "esc")
	if m.view != PlaylistListView {
		t.Fatalf("expected playlist view")
	}

	press(t, m, "i", link, "enter")
	state := lib.State()
	if len(state.Playlists) != 2 {
		t.Fatalf("expected merged import, got %d playlists", len(state.Playlists))
	}
	if state.Playlists[1].Name != models.DefaultPlaylistName+" (2)" {
		t.Errorf("unexpected imported name %q", state.Playlists[1].Name)
	}

	press(t, m, "i", "not a token", "enter")
	if m.err == nil {
		t.Errorf("expected import error")
	}
}
