package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)


// FileBlobStore keeps each key in its own file under dir.
//
// Reads take a shared lock and writes an exclusive lock on a sibling ".lock" file, so a CLI invocation and a running
// server never observe a half-written record.
type FileBlobStore struct {
	dir string
}

// NewFileBlobStore creates dir if needed and returns a store rooted there.
func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileBlobStore{dir: dir}, nil
}

func (r *FileBlobStore) path(key string) string {
	return filepath.Join(r.dir, fileName(key)+".json")
}

// fileName escapes every byte outside [A-Za-z0-9.-] as "_xx" hex, so distinct keys never share a file.
func fileName(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '.', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}

func (r *FileBlobStore) Get(key string) ([]byte, bool, error) {
	path := r.path(key)
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, false, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, true, nil
}

// Set writes value to a temporary file and renames it over the record.
func (r *FileBlobStore) Set(key string, value []byte) error {
	path := r.path(key)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(r.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
