package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the browser key bindings.
type KeyMap struct {
	Previous     key.Binding
	Next         key.Binding
	MorePerPage  key.Binding
	FewerPerPage key.Binding
	MoreColumns  key.Binding
	FewerColumns key.Binding
	Rescan       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Previous: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous page"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		MorePerPage: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more per page"),
		),
		FewerPerPage: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer per page"),
		),
		MoreColumns: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "more columns"),
		),
		FewerColumns: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "fewer columns"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "rescan"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Previous, k.Next, k.Rescan},
		{k.MorePerPage, k.FewerPerPage},
		{k.MoreColumns, k.FewerColumns},
		{k.Help, k.Quit},
	}
}
