package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the launcher's keyboard shortcuts.
type KeyMap struct {
	Confirm key.Binding
	Launch  key.Binding
	Copy    key.Binding
	Quit    key.Binding

	// Release notes scrolling
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "install"),
		),
		Launch: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "attempt launch"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy error"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "exit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓", "scroll notes"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↑/↓", "scroll notes"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f", " "),
		),
	}
}
