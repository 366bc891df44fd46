package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for nav mode.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Select         key.Binding
	Back           key.Binding
	Quit           key.Binding
	Help           key.Binding
	Add            key.Binding
	Delete         key.Binding
	Refresh        key.Binding
	Itinerary      key.Binding
	Flights        key.Binding
	Accommodations key.Binding
	Chat           key.Binding
	Map            key.Binding
	Complete       key.Binding
	Delay          key.Binding
	Book           key.Binding
	NextDay        key.Binding
	PrevDay        key.Binding
	SignOut        key.Binding
	Upvote         key.Binding
	Downvote       key.Binding
}

// DefaultKeyMap returns the default keybindings.
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
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "new trip"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Itinerary: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "itinerary"),
		),
		Flights: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "flights"),
		),
		Accommodations: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stays"),
		),
		Chat: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit via chat"),
		),
		Map: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "map points"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete item"),
		),
		Delay: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delay item"),
		),
		Book: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "book"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("]", "tab"),
			key.WithHelp("]", "next day"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("[", "shift+tab"),
			key.WithHelp("[", "prev day"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "sign out"),
		),
		Upvote: key.NewBinding(
			key.WithKeys("+", "u"),
			key.WithHelp("+", "upvote vibe"),
		),
		Downvote: key.NewBinding(
			key.WithKeys("-", "x"),
			key.WithHelp("-", "downvote vibe"),
		),
	}
}

// FormKeyMap defines keybindings for insert/edit mode.
type FormKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Save      key.Binding
	Cancel    key.Binding
}

// DefaultFormKeyMap returns the default form keybindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
