package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidshelf/internal/models"
)

// MsgKind enumerates the asynchronous results the TUI reacts to.
type MsgKind int

// Msg is the message union delivered by the TUI's commands.
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgVideoAdded MsgKind = iota
	MsgOpened
	MsgCopied
)

type videoAdded struct {
	item *models.VideoItem
	err  error
}

// videoAddedMsg is the constructor for [MsgVideoAdded]
func videoAddedMsg(item *models.VideoItem, err error) Msg {
	return Msg{kind: MsgVideoAdded, data: videoAdded{item, err}}
}

// openedMsg is the constructor for [MsgOpened]
func openedMsg(err error) Msg {
	return Msg{kind: MsgOpened, data: err}
}

// copiedMsg is the constructor for [MsgCopied]
func copiedMsg(err error) Msg {
	return Msg{kind: MsgCopied, data: err}
}
