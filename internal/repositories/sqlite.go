package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vidshelf/internal/shared"
)

// Revision is a previous value of a key.
type Revision struct {
	ID         int64
	Key        string
	Value      []byte
	ReplacedAt time.Time
}

// SQLiteBlobStore implements store.BlobStore on the blobs table.
//
// When history is positive, Set copies the value it overwrites into blob_history and keeps at most history rows per
// key.
type SQLiteBlobStore struct {
	db      *sql.DB
	history int
}

// NewSQLiteBlobStore creates a new SQLiteBlobStore with the given database connection.
func NewSQLiteBlobStore(db *sql.DB, history int) *SQLiteBlobStore {
	return &SQLiteBlobStore{db: db, history: history}
}

func (r *SQLiteBlobStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteBlobStore) Set(key string, value []byte) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if r.history > 0 {
		_, err = tx.Exec(`
			INSERT INTO blob_history (key, value, replaced_at)
			SELECT key, value, ? FROM blobs WHERE key = ? AND value != ?
		`, time.Now().UTC(), key, value)
		if err != nil {
			return fmt.Errorf("failed to record blob history: %w", err)
		}

		_, err = tx.Exec(`
			DELETE FROM blob_history
			WHERE key = ? AND id NOT IN (
				SELECT id FROM blob_history WHERE key = ? ORDER BY id DESC LIMIT ?
			)
		`, key, key, r.history)
		if err != nil {
			return fmt.Errorf("failed to prune blob history: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set blob %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit blob transaction: %w", err)
	}
	return nil
}

// Revisions returns the stored previous values of key, newest first.
func (r *SQLiteBlobStore) Revisions(key string) ([]Revision, error) {
	rows, err := r.db.Query(`
		SELECT id, key, value, replaced_at FROM blob_history WHERE key = ? ORDER BY id DESC
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query blob history: %w", err)
	}
	defer rows.Close()

	var revisions []Revision
	for rows.Next() {
		var rev Revision
		if err := rows.Scan(&rev.ID, &rev.Key, &rev.Value, &rev.ReplacedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blob history: %w", err)
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blob history: %w", err)
	}
	return revisions, nil
}

// Revision returns the history row with id.
func (r *SQLiteBlobStore) Revision(id int64) (*Revision, error) {
	var rev Revision
	err := r.db.QueryRow(`
		SELECT id, key, value, replaced_at FROM blob_history WHERE id = ?
	`, id).Scan(&rev.ID, &rev.Key, &rev.Value, &rev.ReplacedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("revision %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get revision %d: %w", id, err)
	}
	return &rev, nil
}

// Reset drops every stored value and its history by rebuilding the schema.
func (r *SQLiteBlobStore) Reset() error {
	if err := shared.ResetSchema(r.db); err != nil {
		return fmt.Errorf("failed to reset storage: %w", err)
	}
	return nil
}
