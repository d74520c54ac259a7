package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/dustin/go-humanize"
	"github.com/desertthunder/vidshelf/internal/models"
)

var (
	_ list.DefaultItem = playlistItem{}
	_ list.DefaultItem = videoItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist *models.Playlist
	selected bool
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string {
	if i.selected {
		return "● " + i.playlist.Name
	}
	return i.playlist.Name
}
func (i playlistItem) Description() string {
	if n := len(i.playlist.Items); n != 1 {
		return fmt.Sprintf("%d videos", n)
	}
	return "1 video"
}

// videoItem wraps [models.VideoItem] to implement [list.Item].
type videoItem struct {
	item *models.VideoItem
}

func (i videoItem) FilterValue() string { return i.item.DisplayTitle() }
func (i videoItem) Title() string       { return i.item.DisplayTitle() }
func (i videoItem) Description() string {
	desc := fmt.Sprintf("%s • added %s", i.item.URL, humanize.Time(i.item.AddedAt.Time()))
	if len(i.item.Tags) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, styles.tag.Render("#"+strings.Join(i.item.Tags, " #")))
	}
	return desc
}

func newList(items []list.Item, title string) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 80, 20)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}
