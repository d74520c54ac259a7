package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	enter    key.Binding
	back     key.Binding
	yes      key.Binding
	no       key.Binding
	create   key.Binding
	rename   key.Binding
	remove   key.Binding
	share    key.Binding
	shareAll key.Binding
	imports  key.Binding
	add      key.Binding
	search   key.Binding
	tag      key.Binding
	move     key.Binding
	open     key.Binding
	copy     key.Binding
	undo     key.Binding
	redo     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		create:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		share:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		shareAll: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "share all")),
		imports:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		tag:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tags")),
		move:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy link")),
		undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		redo:     key.NewBinding(key.WithKeys("U", "ctrl+r"), key.WithHelp("U", "redo")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.enter, k.back, k.create, k.rename, k.remove},
		{k.add, k.search, k.tag, k.move, k.open},
		{k.share, k.shareAll, k.imports, k.undo, k.redo, k.quit},
	}
}

func (k keyMap) playlistHelp() []key.Binding {
	return []key.Binding{k.enter, k.create, k.rename, k.remove, k.share, k.imports, k.undo, k.quit}
}

func (k keyMap) videoHelp() []key.Binding {
	return []key.Binding{k.add, k.search, k.tag, k.move, k.remove, k.open, k.back, k.undo}
}
