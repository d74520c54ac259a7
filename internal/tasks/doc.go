// Package tasks runs collection operations on behalf of the CLI, HTTP API and TUI.
//
// # Library
//
// [Library] owns the current collection snapshot behind a mutex. Every mutation goes through the pure operations in
// the store package, swaps in the resulting snapshot, pushes the previous one onto a bounded [History], and saves the
// new one to the blob store. Readers get the snapshot itself; snapshots are never modified in place.
//
//   - Playlists: [Library.CreatePlaylist], [Library.RenamePlaylist], [Library.DeletePlaylist], [Library.SelectPlaylist]
//   - Videos: [Library.AddVideo], [Library.RemoveVideo], [Library.TagVideo], [Library.MoveVideo], [Library.Search]
//   - Sharing: [Library.Share], [Library.Import], [Library.ImportFile]
//   - History: [Library.Undo], [Library.Redo]
//
// # Metadata Lookup
//
// [Library.AddVideo] is the only operation that leaves the process. The lookup runs outside the lock and is bounded
// by the configured timeout. When it fails the video is not added unless partial adds are allowed.
//
// # Bulk Operations
//
// [Library.AddVideos] and [Library.BulkExport] fan work out to a small worker pool. Both report progress on an
// optional channel.
//
// # Progress Reporting
//
// Updates use select with default to prevent blocking, so a slow or absent reader never stalls an operation.
package tasks
