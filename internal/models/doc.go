// Package models defines the collection data model shared by every vidshelf component.
//
// The model is a small tree of immutable values:
//   - [CollectionState] : the whole collection with its selected playlist
//   - [Playlist] : a named, ordered list of videos, newest first
//   - [VideoItem] : a reference to an external video with tags and cached metadata
//
// Values are treated as immutable once they are reachable from a [CollectionState].
// Mutations live in the store package and always build new values, so pointer equality between two states
// (or two playlists) means nothing changed.
//
// The JSON tags describe the persisted record and export file format.
// [CollectionState.Validate] enforces the shape a reader accepts.
package models
