// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI works directly on a [tasks.Library]:
//  1. [PlaylistListView] : Browse, create, rename, delete and share playlists, or import a link
//  2. [VideoListView] : Add, tag, move, remove and open videos, with "#tag word" search
//  3. [ShareView] : Show a share link and copy it to the clipboard
//
// Text entry (names, URLs, queries, tags) happens in a single [textinput.Model] shown at the bottom of the screen,
// and destructive actions ask for y/n confirmation. Adding a video runs as a [tea.Cmd] so the metadata lookup does
// not block rendering; its result arrives as a [Msg].
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q), and u/U undo and redo any change.
package ui
