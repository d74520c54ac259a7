// Package repositories implements the blob stores that hold the serialized collection.
//
// Key Implementations:
//   - [SQLiteBlobStore] : a blobs table with an optional bounded revision history per key
//   - [FileBlobStore] : one JSON file per key, guarded by an advisory file lock
//   - [MemoryBlobStore] : process-local storage for tests and throwaway sessions
//
// [Open] picks an implementation from [shared.StorageConfig].
package repositories
