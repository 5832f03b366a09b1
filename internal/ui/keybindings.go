package ui

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Open     key.Binding
	Close    key.Binding
	Filter   key.Binding

	Wrappers key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding

	TraceUp       key.Binding
	TraceDown     key.Binding
	TracePageUp   key.Binding
	TracePageDown key.Binding
}

// ShortHelp is the one-line help under the tree.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Close, k.Filter, k.Help, k.Quit}
}

// FullHelp is shown after pressing ?.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Open, k.Close, k.Copy},
		{k.TraceUp, k.TraceDown, k.TracePageUp, k.TracePageDown},
		{k.Filter, k.Wrappers},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "b"),
		key.WithHelp("pgup/b", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "space"),
		key.WithHelp("pgdn/space", "page down"),
	),
	Top: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g/home", "go to top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G/end", "go to bottom"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "show stack traces"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "x"),
		key.WithHelp("esc/x", "close traces"),
	),
	TraceUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "scroll traces up"),
	),
	TraceDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "scroll traces down"),
	),
	TracePageUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "traces half page up"),
	),
	TracePageDown: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "traces half page down"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f", "tab"),
		key.WithHelp("f/tab", "toggle filter"),
	),
	Wrappers: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "toggle wrappers"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy traces"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
