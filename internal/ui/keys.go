package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the window controls.
type KeyMap struct {
	Ring   key.Binding
	Accept key.Binding
	Reject key.Binding
	Lock   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap is the built-in key binding set.
//
//nolint:gochecknoglobals // Immutable default bindings.
var DefaultKeyMap = KeyMap{
	Ring: key.NewBinding(
		key.WithKeys("r", "b"),
		key.WithHelp("r", "ring doorbell"),
	),
	Accept: key.NewBinding(
		key.WithKeys("a", "y"),
		key.WithHelp("a", "accept"),
	),
	Reject: key.NewBinding(
		key.WithKeys("x", "n"),
		key.WithHelp("x", "reject"),
	),
	Lock: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "lock door"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}
