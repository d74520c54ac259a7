package repositories

import (
	"slices"
	"sync"
)

// MemoryBlobStore is a process-local blob store.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBlobStore creates an empty MemoryBlobStore.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (r *MemoryBlobStore) Get(key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.blobs[key]
	return slices.Clone(v), ok, nil
}

func (r *MemoryBlobStore) Set(key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[key] = slices.Clone(value)
	return nil
}
