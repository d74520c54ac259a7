package repositories

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/store"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// exerciseBlobStore runs the behaviour every store.BlobStore must share.
func exerciseBlobStore(t *testing.T, blobs store.BlobStore) {
	t.Helper()

	if _, ok, err := blobs.Get("missing"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := blobs.Set("k", []byte("one")); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := blobs.Set("k", []byte("two")); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}
	if err := blobs.Set("other", []byte("x")); err != nil {
		t.Fatalf("failed to set other key: %v", err)
	}

	value, ok, err := blobs.Get("k")
	if err != nil || !ok {
		t.Fatalf("expected key to exist, got ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(value, []byte("two")) {
		t.Errorf("expected latest value, got %q", value)
	}
}

func TestSQLiteBlobStore(t *testing.T) {
	t.Run("Contract", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		exerciseBlobStore(t, NewSQLiteBlobStore(db, 0))
	})

	t.Run("History", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSQLiteBlobStore(db, 2)
		for _, v := range []string{"a", "b", "b", "c", "d"} {
			if err := repo.Set("k", []byte(v)); err != nil {
				t.Fatalf("failed to set %s: %v", v, err)
			}
		}

		revisions, err := repo.Revisions("k")
		if err != nil {
			t.Fatalf("failed to list revisions: %v", err)
		}
		if len(revisions) != 2 {
			t.Fatalf("expected 2 revisions, got %d", len(revisions))
		}
		if string(revisions[0].Value) != "c" || string(revisions[1].Value) != "b" {
			t.Errorf("unexpected revisions %q, %q", revisions[0].Value, revisions[1].Value)
		}

		rev, err := repo.Revision(revisions[1].ID)
		if err != nil {
			t.Fatalf("failed to get revision: %v", err)
		}
		if string(rev.Value) != "b" || rev.Key != "k" {
			t.Errorf("unexpected revision %+v", rev)
		}

		if _, err := repo.Revision(9999); err == nil {
			t.Error("expected error for missing revision")
		}
	})

	t.Run("HistoryDisabled", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSQLiteBlobStore(db, 0)
		_ = repo.Set("k", []byte("a"))
		_ = repo.Set("k", []byte("b"))

		revisions, err := repo.Revisions("k")
		if err != nil || len(revisions) != 0 {
			t.Errorf("expected no revisions, got %d (%v)", len(revisions), err)
		}
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSQLiteBlobStore(db, 1)
		db.Close()

		if _, _, err := repo.Get("k"); err == nil {
			t.Error("expected error from closed database")
		}
		if err := repo.Set("k", []byte("v")); err == nil {
			t.Error("expected error from closed database")
		}
	})
}

func TestFileBlobStore(t *testing.T) {
	t.Run("Contract", func(t *testing.T) {
		repo, err := NewFileBlobStore(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		exerciseBlobStore(t, repo)
	})

	t.Run("UnsafeKey", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := NewFileBlobStore(dir)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if err := repo.Set("../escape/me", []byte("v")); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, ".._2fescape_2fme.json")); err != nil {
			t.Errorf("expected escaped file inside dir: %v", err)
		}
	})

	t.Run("DistinctKeys", func(t *testing.T) {
		repo, err := NewFileBlobStore(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		keys := []string{"a/b", "a_b", "a b", "a_2fb"}
		for _, key := range keys {
			if err := repo.Set(key, []byte(key)); err != nil {
				t.Fatalf("failed to set %q: %v", key, err)
			}
		}
		for _, key := range keys {
			got, ok, err := repo.Get(key)
			if err != nil || !ok {
				t.Fatalf("failed to get %q: ok=%v err=%v", key, ok, err)
			}
			if string(got) != key {
				t.Errorf("key %q read back %q", key, got)
			}
		}
	})

	t.Run("NestedDirectory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		if _, err := NewFileBlobStore(dir); err != nil {
			t.Fatalf("failed to create nested store: %v", err)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("expected directory to exist: %v", err)
		}
	})
}

func TestMemoryBlobStore(t *testing.T) {
	repo := NewMemoryBlobStore()
	exerciseBlobStore(t, repo)

	value := []byte("v")
	_ = repo.Set("copy", value)
	value[0] = 'x'
	if got, _, _ := repo.Get("copy"); string(got) != "v" {
		t.Errorf("store should keep its own copy, got %q", got)
	}
}

func TestOpen(t *testing.T) {
	tc := []struct {
		name   string
		driver string
		path   func(t *testing.T) string
	}{
		{name: "sqlite", driver: "sqlite", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "v.db") }},
		{name: "file", driver: "file", path: func(t *testing.T) string { return t.TempDir() }},
		{name: "memory", driver: "memory", path: func(t *testing.T) string { return "" }},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			blobs, closer, err := Open(shared.StorageConfig{Driver: tt.driver, Path: tt.path(t), Key: "k", History: 3})
			if err != nil {
				t.Fatalf("failed to open: %v", err)
			}
			defer closer.Close()
			exerciseBlobStore(t, blobs)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, _, err := Open(shared.StorageConfig{Driver: "postgres"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
