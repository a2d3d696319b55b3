package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up       key.Binding // k - move up
	Down     key.Binding // j - move down
	Top      key.Binding // g - jump to top
	Bottom   key.Binding // G - jump to bottom
	Select   key.Binding // Enter - select
	Refresh  key.Binding // r - refresh / retry
	LoadMore key.Binding // m - next page of batches
	Output   key.Binding // o - view output log
	Errors   key.Binding // e - view error log
	Cancel   key.Binding // c - cancel batch
	Download key.Binding // d - download output / delete file
	Upload   key.Binding // u - upload file
	Files    key.Binding // f - switch to files
	Batches  key.Binding // b - switch to batches
	Profiles key.Binding // p - back to profile list
	Help     key.Binding // ? - help
	Quit     key.Binding // q - quit
	Back     key.Binding // Esc - back/cancel
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "select"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "more"),
		),
		Output: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "output log"),
		),
		Errors: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "error log"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel batch"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download/delete"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload"),
		),
		Files: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "files"),
		),
		Batches: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "batches"),
		),
		Profiles: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "profiles"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped for the help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Select},
		{k.Refresh, k.LoadMore, k.Output, k.Errors, k.Cancel},
		{k.Download, k.Upload, k.Files, k.Batches, k.Profiles},
		{k.Help, k.Quit, k.Back},
	}
}
