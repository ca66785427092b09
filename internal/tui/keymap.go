package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the draft review shortcuts.
type KeyMap struct {
	Confirm   key.Binding
	EditTitle key.Binding
	Cancel    key.Binding
	Submit    key.Binding
	Back      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c/enter", "confirm"),
		),
		EditTitle: key.NewBinding(
			key.WithKeys("t", "e"),
			key.WithHelp("t", "edit title"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x", "q", "esc"),
			key.WithHelp("x/esc", "cancel"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save title"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "discard edit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k KeyMap) reviewHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.EditTitle, k.Cancel}
}

func (k KeyMap) editHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Back}
}
