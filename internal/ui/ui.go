package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/share"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/tags"
	"github.com/desertthunder/vidshelf/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	VideoListView
	ShareView
)

// promptKind names what the text input is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptNewPlaylist
	promptRename
	promptAddVideo
	promptSearch
	promptTags
	promptMove
	promptImport
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDeletePlaylist
	confirmRemoveVideo
)

// Options holds the side-effecting helpers the TUI calls out to.
type Options struct {
	Open func(string) error // Opens a video URL; defaults to [shared.OpenBrowser]
	Copy func(string) error // Copies text to the clipboard
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	lib        *tasks.Library
	opts       Options
	view       ViewState
	width      int
	height     int
	playlists  list.Model
	videos     list.Model
	playlistID string // Playlist shown in VideoListView
	query      string
	input      textinput.Model
	prompt     promptKind
	confirm    confirmKind
	shared     *tasks.ShareResult
	status     string
	busy       bool
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a TUI model over lib.
func NewModel(ctx context.Context, lib *tasks.Library, opts Options) *Model {
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	input := textinput.New()
	input.CharLimit = 8192

	m := &Model{
		ctx:       ctx,
		lib:       lib,
		opts:      opts,
		view:      PlaylistListView,
		playlists: newList(nil, "Playlists"),
		videos:    newList(nil, ""),
		input:     input,
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.refresh()
	return m
}

// Init implements [tea.Model]. The collection is already loaded, so there is nothing to fetch.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlists.SetSize(msg.Width-4, msg.Height-8)
		m.videos.SetSize(msg.Width-4, msg.Height-8)
		m.input.Width = max(20, msg.Width-24)
		return m, nil

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.prompt != promptNone:
			return m.handlePromptKeys(msg)
		case m.confirm != confirmNone:
			return m.handleConfirmKeys(msg)
		}
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistKeys(msg)
		case VideoListView:
			return m.handleVideoKeys(msg)
		case ShareView:
			return m.handleShareKeys(msg)
		}
	}

	if m.prompt != promptNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgVideoAdded:
		data := msg.data.(videoAdded)
		m.busy = false
		if data.err != nil {
			m.fail(data.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Added %s", data.item.DisplayTitle()))
		m.videos.Select(0)
		m.refresh()
	case MsgOpened:
		if err, _ := msg.data.(error); err != nil {
			m.fail(err)
		}
	case MsgCopied:
		if err, _ := msg.data.(error); err != nil {
			m.fail(err)
		} else {
			m.setStatus("Copied to clipboard")
		}
	}
	return m, nil
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.currentPlaylist()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if p != nil {
			m.openPlaylist(p.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.create):
		return m, m.ask(promptNewPlaylist, "New playlist: ", "")
	case key.Matches(msg, m.keys.rename):
		if p != nil {
			return m, m.ask(promptRename, "Rename to: ", p.Name)
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if p != nil {
			m.confirm = confirmDeletePlaylist
		}
		return m, nil
	case key.Matches(msg, m.keys.share):
		m.sharePlaylists(share.ScopeSelected)
		return m, nil
	case key.Matches(msg, m.keys.shareAll):
		m.sharePlaylists(share.ScopeAll)
		return m, nil
	case key.Matches(msg, m.keys.imports):
		return m, m.ask(promptImport, "Paste link or token: ", "")
	case key.Matches(msg, m.keys.undo):
		m.undo()
		return m, nil
	case key.Matches(msg, m.keys.redo):
		m.redo()
		return m, nil
	}

	var cmd tea.Cmd
	m.playlists, cmd = m.playlists.Update(msg)
	return m, cmd
}

func (m *Model) handleVideoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.currentVideo()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.query != "" {
			m.query = ""
		} else {
			m.view = PlaylistListView
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.add):
		return m, m.ask(promptAddVideo, "Video URL: ", "")
	case key.Matches(msg, m.keys.search):
		return m, m.ask(promptSearch, "Search (#tag words): ", m.query)
	case key.Matches(msg, m.keys.tag):
		if v != nil {
			return m, m.ask(promptTags, "Tags: ", strings.Join(v.Tags, ", "))
		}
		return m, nil
	case key.Matches(msg, m.keys.move):
		if v != nil {
			return m, m.ask(promptMove, "Move to playlist: ", "")
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if v != nil {
			m.confirm = confirmRemoveVideo
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		if v != nil {
			return m, m.openURL(v.URL)
		}
		return m, nil
	case key.Matches(msg, m.keys.undo):
		m.undo()
		return m, nil
	case key.Matches(msg, m.keys.redo):
		m.redo()
		return m, nil
	}

	var cmd tea.Cmd
	m.videos, cmd = m.videos.Update(msg)
	return m, cmd
}

func (m *Model) handleShareKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.copy):
		if m.shared == nil {
			return m, nil
		}
		text := m.shared.Link
		if text == "" {
			text = m.shared.Token
		}
		return m, m.copyText(text)
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = PlaylistListView
		m.shared = nil
	}
	return m, nil
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompt = promptNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		kind := m.prompt
		value := strings.TrimSpace(m.input.Value())
		m.prompt = promptNone
		m.input.Blur()
		return m, m.submit(kind, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		kind := m.confirm
		m.confirm = confirmNone
		m.performConfirmed(kind)
	case key.Matches(msg, m.keys.no):
		m.confirm = confirmNone
	}
	return m, nil
}

func (m *Model) performConfirmed(kind confirmKind) {
	switch kind {
	case confirmDeletePlaylist:
		if p := m.currentPlaylist(); p != nil {
			if err := m.lib.DeletePlaylist(p.ID); err != nil {
				m.fail(err)
				return
			}
			m.setStatus(fmt.Sprintf("Deleted %s", p.Name))
		}
	case confirmRemoveVideo:
		if v := m.currentVideo(); v != nil {
			if err := m.lib.RemoveVideo(m.playlistID, v.ID); err != nil {
				m.fail(err)
				return
			}
			m.setStatus(fmt.Sprintf("Removed %s", v.DisplayTitle()))
		}
	}
	m.refresh()
}

// submit applies a completed prompt. Adding a video runs asynchronously because it performs a metadata lookup.
func (m *Model) submit(kind promptKind, value string) tea.Cmd {
	switch kind {
	case promptNewPlaylist:
		p := m.lib.CreatePlaylist(value)
		m.setStatus(fmt.Sprintf("Created %s", p.Name))
		m.refresh()
		m.focusPlaylist(p.ID)

	case promptRename:
		p := m.currentPlaylist()
		if p == nil {
			return nil
		}
		renamed, err := m.lib.RenamePlaylist(p.ID, value)
		if err != nil {
			m.fail(err)
			return nil
		}
		m.setStatus(fmt.Sprintf("Renamed to %s", renamed.Name))
		m.refresh()

	case promptAddVideo:
		if value == "" {
			return nil
		}
		m.busy = true
		m.setStatus("Looking up " + value)
		ctx, lib, playlistID := m.ctx, m.lib, m.playlistID
		return func() tea.Msg {
			item, err := lib.AddVideo(ctx, tasks.AddVideoInput{Playlist: playlistID, URL: value})
			return videoAddedMsg(item, err)
		}

	case promptSearch:
		m.query = value
		m.videos.Select(0)
		m.refresh()

	case promptTags:
		v := m.currentVideo()
		if v == nil {
			return nil
		}
		if _, err := m.lib.TagVideo(m.playlistID, v.ID, tags.ParseTagsInput(value)); err != nil {
			m.fail(err)
			return nil
		}
		m.setStatus("Tags updated")
		m.refresh()

	case promptMove:
		v := m.currentVideo()
		if v == nil || value == "" {
			return nil
		}
		res, err := m.lib.MoveVideo(m.playlistID, value, v.ID)
		if err != nil {
			m.fail(err)
			return nil
		}
		if res.Dropped {
			m.setStatus(fmt.Sprintf("%s already had this video; removed from %s", res.To.Name, res.From.Name))
		} else {
			m.setStatus(fmt.Sprintf("Moved to %s", res.To.Name))
		}
		m.refresh()

	case promptImport:
		if value == "" {
			return nil
		}
		res, err := m.lib.Import(value, share.ModeMerge)
		if err != nil {
			m.fail(err)
			return nil
		}
		m.setStatus(fmt.Sprintf("Imported %d playlists (%d videos)", res.Playlists, res.Videos))
		m.refresh()
	}
	return nil
}

func (m *Model) ask(kind promptKind, label, value string) tea.Cmd {
	m.prompt = kind
	m.input.Prompt = label
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) openPlaylist(id string) {
	if _, err := m.lib.SelectPlaylist(id); err != nil {
		m.fail(err)
		return
	}
	m.playlistID = id
	m.query = ""
	m.view = VideoListView
	m.videos.Select(0)
	m.refresh()
}

func (m *Model) sharePlaylists(scope share.Scope) {
	if scope == share.ScopeSelected {
		if p := m.currentPlaylist(); p != nil {
			if _, err := m.lib.SelectPlaylist(p.ID); err != nil {
				m.fail(err)
				return
			}
		}
	}

	opts := m.lib.ShareOptions()
	opts.Scope = scope
	res, err := m.lib.Share(opts)
	if err != nil {
		m.fail(err)
		return
	}
	m.shared = res
	m.view = ShareView
	m.refresh()
}

func (m *Model) undo() {
	if err := m.lib.Undo(); err != nil {
		m.fail(err)
		return
	}
	m.setStatus("Undone")
	m.refresh()
}

func (m *Model) redo() {
	if err := m.lib.Redo(); err != nil {
		m.fail(err)
		return
	}
	m.setStatus("Redone")
	m.refresh()
}

func (m *Model) openURL(u string) tea.Cmd {
	open := m.opts.Open
	return func() tea.Msg {
		return openedMsg(open(u))
	}
}

func (m *Model) copyText(text string) tea.Cmd {
	copyFn := m.opts.Copy
	return func() tea.Msg {
		return copiedMsg(copyFn(text))
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.err = nil
}

func (m *Model) fail(err error) {
	m.err = err
	m.status = ""
}

// refresh rebuilds both lists from the library's current snapshot.
func (m *Model) refresh() {
	state := m.lib.State()

	items := make([]list.Item, 0, len(state.Playlists))
	for _, p := range state.Playlists {
		items = append(items, playlistItem{playlist: p, selected: p.ID == state.SelectedPlaylistID})
	}
	idx := m.playlists.Index()
	m.playlists.SetItems(items)
	m.playlists.Select(clamp(idx, len(items)))

	if m.view != VideoListView {
		return
	}

	_, p := state.FindPlaylist(m.playlistID)
	if p == nil {
		m.view = PlaylistListView
		m.playlistID = ""
		m.query = ""
		return
	}

	visible := tags.Filter(p.Items, m.query)
	videos := make([]list.Item, 0, len(visible))
	for _, item := range visible {
		videos = append(videos, videoItem{item: item})
	}
	vidx := m.videos.Index()
	m.videos.SetItems(videos)
	m.videos.Select(clamp(vidx, len(videos)))

	if m.query != "" {
		m.videos.Title = fmt.Sprintf("%s • %d of %d matching %q", p.Name, len(visible), len(p.Items), m.query)
	} else {
		m.videos.Title = p.Name
	}
}

func (m *Model) focusPlaylist(id string) {
	for i, it := range m.playlists.Items() {
		if pi, ok := it.(playlistItem); ok && pi.playlist.ID == id {
			m.playlists.Select(i)
			return
		}
	}
}

func (m *Model) currentPlaylist() *models.Playlist {
	if pi, ok := m.playlists.SelectedItem().(playlistItem); ok {
		return pi.playlist
	}
	return nil
}

func (m *Model) currentVideo() *models.VideoItem {
	if vi, ok := m.videos.SelectedItem().(videoItem); ok {
		return vi.item
	}
	return nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlists, cmd = m.playlists.Update(msg)
	case VideoListView:
		m.videos, cmd = m.videos.Update(msg)
	}
	return m, cmd
}

func clamp(i, n int) int {
	switch {
	case n == 0 || i < 0:
		return 0
	case i >= n:
		return n - 1
	default:
		return i
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case PlaylistListView:
		body = fmt.Sprintf("%s\n\n%s", m.playlists.View(), m.help.ShortHelpView(m.keys.playlistHelp()))
	case VideoListView:
		body = fmt.Sprintf("%s\n\n%s", m.videos.View(), m.help.ShortHelpView(m.keys.videoHelp()))
	case ShareView:
		body = m.renderShare()
	}

	if footer := m.renderFooter(); footer != "" {
		body = fmt.Sprintf("%s\n%s", body, footer)
	}
	return body
}

func (m *Model) renderShare() string {
	if m.shared == nil {
		return ""
	}

	title := styles.title.Render("Share link")
	text := m.shared.Link
	if text == "" {
		text = m.shared.Token
	}
	info := fmt.Sprintf("%d playlists, %d videos", m.shared.Playlists, m.shared.Videos)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.copy, m.keys.back, m.keys.quit})

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, styles.box.Render(text), info, helpView)
}

func (m *Model) renderFooter() string {
	switch {
	case m.prompt != promptNone:
		return styles.prompt.Render(m.input.View())
	case m.confirm == confirmDeletePlaylist:
		if p := m.currentPlaylist(); p != nil {
			return styles.warn.Render(fmt.Sprintf("Delete playlist '%s' and its %d videos? (y/n)", p.Name, len(p.Items)))
		}
	case m.confirm == confirmRemoveVideo:
		if v := m.currentVideo(); v != nil {
			return styles.warn.Render(fmt.Sprintf("Remove '%s'? (y/n)", v.DisplayTitle()))
		}
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.busy:
		return styles.help.Render(m.status + "...")
	case m.status != "":
		return styles.ok.Render(m.status)
	}
	return ""
}
