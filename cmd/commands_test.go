package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/store"
	tu "github.com/desertthunder/vidshelf/internal/testing"
)

type cliFixture struct {
	runner *Runner
	output *bytes.Buffer
	blobs  *tu.MemoryBlobs
	opened []string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()

	f := &cliFixture{output: &bytes.Buffer{}, blobs: tu.NewMemoryBlobs()}
	f.runner = NewRunner(RunnerOpts{
		Logger:  shared.DiscardLogger(),
		Output:  f.output,
		Blobs:   f.blobs,
		Fetcher: &tu.StubFetcher{},
		Open: func(u string) error {
			f.opened = append(f.opened, u)
			return nil
		},
	})
	return f
}

// run executes args against a fresh command tree and returns what the command printed.
func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	f.output.Reset()
	argv := append([]string{"vidshelf", "--config", ""}, args...)
	err := newApp(f.runner).Run(context.Background(), argv)
	return f.output.String(), err
}

func (f *cliFixture) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := f.run(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out
}

func (f *cliFixture) state(t *testing.T) *models.CollectionState {
	t.Helper()
	lib, err := f.runner.library()
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	return lib.State()
}

func TestPlaylistCommands(t *testing.T) {
	f := newCLIFixture(t)

	out := f.mustRun(t, "playlist", "create", "Talks")
	if !strings.Contains(out, "Created Talks") {
		t.Errorf("unexpected output %q", out)
	}

	out = f.mustRun(t, "playlist", "list")
	for _, want := range []string{models.DefaultPlaylistName, "Talks", "●"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in listing:\n%s", want, out)
		}
	}

	f.mustRun(t, "playlist", "rename", "talks", "Conference talks")
	f.mustRun(t, "playlist", "select", models.DefaultPlaylistName)
	state := f.state(t)
	if state.Playlists[1].Name != "Conference talks" {
		t.Errorf("expected rename, got %q", state.Playlists[1].Name)
	}
	if state.Selected().Name != models.DefaultPlaylistName {
		t.Errorf("expected selection change, got %q", state.Selected().Name)
	}

	out = f.mustRun(t, "playlist", "delete", "Conference talks")
	if !strings.Contains(out, "Deleted Conference talks") {
		t.Errorf("unexpected output %q", out)
	}
	if got := len(f.state(t).Playlists); got != 1 {
		t.Errorf("expected 1 playlist, got %d", got)
	}

	t.Run("json listing", func(t *testing.T) {
		out := f.mustRun(t, "playlist", "list", "--json")
		if !strings.HasPrefix(strings.TrimSpace(out), "[") {
			t.Errorf("expected a JSON array, got %q", out)
		}
	})

	t.Run("unknown playlist", func(t *testing.T) {
		_, err := f.run(t, "playlist", "select", "nope")
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := f.run(t, "playlist", "delete")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("persisted", func(t *testing.T) {
		if f.blobs.Writes == 0 {
			t.Error("expected writes to the blob store")
		}
	})
}

func TestVideoCommands(t *testing.T) {
	f := newCLIFixture(t)

	out := f.mustRun(t, "video", "add", "--title", "A talk", "--tags", "Go, talks", "https://example.com/talk")
	if !strings.Contains(out, "Added A talk") {
		t.Errorf("unexpected output %q", out)
	}

	out = f.mustRun(t, "video", "add", "https://example.com/one", "https://example.com/two")
	if !strings.Contains(out, "Added: 2/2") {
		t.Errorf("expected bulk summary, got %q", out)
	}

	items := f.state(t).Selected().Items
	if len(items) != 3 {
		t.Fatalf("expected 3 videos, got %d", len(items))
	}

	var talk *models.VideoItem
	for _, item := range items {
		if item.URL == "https://example.com/talk" {
			talk = item
		}
	}
	if talk == nil {
		t.Fatal("expected the talk to be stored")
	}

	out = f.mustRun(t, "video", "list")
	if !strings.Contains(out, "A talk") || !strings.Contains(out, "#Go #talks") {
		t.Errorf("expected listing with tags:\n%s", out)
	}

	t.Run("search", func(t *testing.T) {
		out := f.mustRun(t, "video", "search", "#go")
		if !strings.Contains(out, "1 matches") {
			t.Errorf("expected one match:\n%s", out)
		}

		out = f.mustRun(t, "video", "search", "#jazz")
		if !strings.Contains(out, "No videos match") {
			t.Errorf("expected no matches, got %q", out)
		}

		_, err := f.run(t, "video", "search")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("tag", func(t *testing.T) {
		out := f.mustRun(t, "video", "tag", talk.ID, "keynote", "go")
		if !strings.Contains(out, "#keynote #go") {
			t.Errorf("unexpected output %q", out)
		}

		out = f.mustRun(t, "video", "tag", talk.ID)
		if !strings.Contains(out, "Cleared tags") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := f.run(t, "video", "add", "https://example.com/talk")
		if !errors.Is(err, shared.ErrDuplicateVideo) {
			t.Errorf("expected ErrDuplicateVideo, got %v", err)
		}
	})

	t.Run("open", func(t *testing.T) {
		f.mustRun(t, "video", "open", talk.ID)
		if len(f.opened) != 1 || f.opened[0] != talk.URL {
			t.Errorf("unexpected opened urls %v", f.opened)
		}

		_, err := f.run(t, "video", "open", "v_missing")
		if !errors.Is(err, shared.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", err)
		}
	})

	t.Run("move", func(t *testing.T) {
		f.mustRun(t, "playlist", "create", "Later")
		_, err := f.run(t, "video", "move", "--playlist", models.DefaultPlaylistName, "--to", "Later", talk.ID)
		if err != nil {
			t.Fatalf("move failed: %v", err)
		}
		later, _ := f.runner.lib.Playlist("Later")
		if len(later.Items) != 1 || later.Items[0].URL != talk.URL {
			t.Errorf("expected the talk in Later, got %+v", later.Items)
		}
	})

	t.Run("remove", func(t *testing.T) {
		f.mustRun(t, "video", "remove", "--playlist", "Later", talk.ID)
		later, _ := f.runner.lib.Playlist("Later")
		if len(later.Items) != 0 {
			t.Errorf("expected empty playlist, got %d", len(later.Items))
		}
	})

	t.Run("title with several urls", func(t *testing.T) {
		_, err := f.run(t, "video", "add", "--title", "x", "https://example.com/a", "https://example.com/b")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestShareImportCommands(t *testing.T) {
	src := newCLIFixture(t)
	src.mustRun(t, "video", "add", "https://example.com/talk")

	token := strings.TrimSpace(src.mustRun(t, "share", "--token"))
	if !strings.HasPrefix(token, "v1.") {
		t.Fatalf("expected a token, got %q", token)
	}

	out := src.mustRun(t, "share", "--open")
	if !strings.Contains(out, "#/import?d="+token) || len(src.opened) != 1 {
		t.Errorf("expected link output and browser open, got %q %v", out, src.opened)
	}

	dst := newCLIFixture(t)
	out = dst.mustRun(t, "import", token)
	if !strings.Contains(out, "Imported 1 playlists (1 videos) with merge") {
		t.Errorf("unexpected output %q", out)
	}
	if got := len(dst.state(t).Playlists); got != 2 {
		t.Errorf("expected merged playlist, got %d", got)
	}

	out = dst.mustRun(t, "import", "--mode", "replace", "see http://x.test/#/import?d="+token)
	if !strings.Contains(out, "with replace") || len(dst.state(t).Playlists) != 1 {
		t.Errorf("expected replace, got %q", out)
	}

	tc := []struct {
		name string
		args []string
		want error
	}{
		{name: "nothing to import", args: []string{"import"}, want: shared.ErrMissingArgument},
		{name: "garbage", args: []string{"import", "v1.%%%"}, want: shared.ErrMalformedImportToken},
		{name: "bad mode", args: []string{"import", "--mode", "append", token}, want: shared.ErrInvalidArgument},
		{name: "link and file", args: []string{"import", "--file", "x.json", token}, want: shared.ErrInvalidArgument},
		{name: "missing file", args: []string{"import", "--file", filepath.Join(t.TempDir(), "x.json")}, want: shared.ErrFileImport},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dst.run(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExportCommand(t *testing.T) {
	f := newCLIFixture(t)
	f.mustRun(t, "video", "add", "--tags", "go", "https://example.com/talk")

	t.Run("json to stdout round trips through file import", func(t *testing.T) {
		out := f.mustRun(t, "export")
		state, err := store.ParseState([]byte(out))
		if err != nil {
			t.Fatalf("export is not a valid collection: %v", err)
		}
		if state.ItemCount() != 1 {
			t.Errorf("expected 1 video, got %d", state.ItemCount())
		}

		path := filepath.Join(t.TempDir(), "shelf.json")
		os.WriteFile(path, []byte(out), 0o644)

		dst := newCLIFixture(t)
		out = dst.mustRun(t, "import", "--file", path, "--mode", "replace")
		if !strings.Contains(out, "Imported 1 playlists (1 videos)") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("csv to a directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		out := f.mustRun(t, "export", "--format", "csv", "--output", dir)
		if !strings.Contains(out, "Exported: 1/1 playlists") {
			t.Errorf("unexpected output %q", out)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := f.run(t, "export", "--format", "pdf")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestIntentCommand(t *testing.T) {
	f := newCLIFixture(t)

	out := f.mustRun(t, "intent", "https://shelf.test/#/?add=1&title=Shared&url=https%3A%2F%2Fexample.com%2Ftalk")
	if !strings.Contains(out, "Added Shared") {
		t.Errorf("unexpected output %q", out)
	}

	_, err := f.run(t, "intent", "https://shelf.test/#/")
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetupCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	f := newCLIFixture(t)

	f.output.Reset()
	err := newApp(f.runner).Run(context.Background(), []string{"vidshelf", "--config", path, "setup", "config"})
	if err != nil {
		t.Fatalf("setup config failed: %v", err)
	}
	tu.AssertFileExists(t, path)

	err = newApp(f.runner).Run(context.Background(), []string{"vidshelf", "--config", path, "setup", "config"})
	if err == nil {
		t.Error("expected an error when the config already exists")
	}

	out := f.mustRun(t, "setup", "database")
	if !strings.Contains(out, "Storage ready") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRevisionsCommands(t *testing.T) {
	t.Run("needs sqlite", func(t *testing.T) {
		f := newCLIFixture(t)
		_, err := f.run(t, "revisions", "list")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("list and restore", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Storage.Path = filepath.Join(t.TempDir(), "shelf.db")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config:  config,
			Logger:  shared.DiscardLogger(),
			Output:  output,
			Fetcher: &tu.StubFetcher{},
		})
		defer runner.Close()

		run := func(args ...string) string {
			t.Helper()
			output.Reset()
			if err := newApp(runner).Run(context.Background(), append([]string{"vidshelf", "--config", ""}, args...)); err != nil {
				t.Fatalf("%v failed: %v", args, err)
			}
			return output.String()
		}

		playlists := func() int {
			t.Helper()
			lib, err := runner.library()
			if err != nil {
				t.Fatalf("library: %v", err)
			}
			return len(lib.State().Playlists)
		}

		run("playlist", "create", "One")
		afterFirst := playlists()
		run("playlist", "create", "Two")

		out := run("revisions", "list")
		if !strings.Contains(out, "playlists") {
			t.Fatalf("expected revisions listed:\n%s", out)
		}

		sqlite, err := runner.revisionStore()
		if err != nil {
			t.Fatalf("revision store: %v", err)
		}
		revisions, err := sqlite.Revisions(config.Storage.Key)
		if err != nil || len(revisions) == 0 {
			t.Fatalf("expected revisions, got %d (%v)", len(revisions), err)
		}

		out = run("revisions", "restore", strconv.FormatInt(revisions[0].ID, 10))
		if !strings.Contains(out, "Restored revision") {
			t.Errorf("unexpected output %q", out)
		}
		if got := playlists(); got != afterFirst {
			t.Errorf("expected %d playlists after restore, got %d", afterFirst, got)
		}

		output.Reset()
		err = newApp(runner).Run(context.Background(), []string{"vidshelf", "--config", "", "revisions", "restore", "abc"})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}

		out = run("setup", "database", "--reset")
		if !strings.Contains(out, "Playlists: 1, videos: 0") {
			t.Errorf("expected a freshly seeded collection:\n%s", out)
		}
		sqlite, err = runner.revisionStore()
		if err != nil {
			t.Fatalf("revision store: %v", err)
		}
		if revisions, _ := sqlite.Revisions(config.Storage.Key); len(revisions) != 0 {
			t.Errorf("expected no revisions after reset, got %d", len(revisions))
		}
	})
}
