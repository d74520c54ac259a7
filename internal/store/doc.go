// Package store owns the collection state and its mutation rules.
//
// Every operation takes a [models.CollectionState] and returns the next one without modifying its input.
// When an operation does not apply (missing playlist, duplicate video, unknown item) the input pointer is
// returned unchanged, so callers can detect "no change" with ==. Playlists and items untouched by an operation
// keep their pointer identity in the returned state.
//
// Invariants maintained by the operations:
//   - the collection always holds at least one playlist; deleting the last one seeds a fresh "Favorites"
//   - the selected playlist id always names an existing playlist
//   - no two items in one playlist share a dedup key (video id, else normalized URL)
//
// [MoveVideo] is remove followed by add. When the destination already holds an item with the same dedup key
// the add is a no-op, so the item leaves the source and does not reach the destination. Callers that expose
// moves to users should check [Collides] first and warn.
//
// [Store] persists the whole collection as one JSON record under a single key of a [BlobStore].
// Records that fail validation are discarded and replaced by a seeded default.
package store
