package repositories

import (
	"fmt"
	"io"

	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/store"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the blob store named by cfg.Driver.
//
// The returned closer releases the underlying database or lock and must be called once the store is no longer
// used.
func Open(cfg shared.StorageConfig) (store.BlobStore, io.Closer, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		// sqlite serialises writers; one connection keeps the blob and history writes ordered.
		shared.ConfigureDatabase(db, 1, 1)
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return NewSQLiteBlobStore(db, cfg.History), db, nil
	case "file":
		blobs, err := NewFileBlobStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return blobs, nopCloser{}, nil
	case "memory":
		return NewMemoryBlobStore(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}
