package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the editor responds to. Global bindings are
// matched before a key reaches the focused widget.
type keyMap struct {
	Open           key.Binding
	Save           key.Binding
	Run            key.Binding
	Build          key.Binding
	Clear          key.Binding
	Diff           key.Binding
	ToggleExplorer key.Binding
	ToggleTerminal key.Binding
	CloseTab       key.Binding
	NextTab        key.Binding
	PrevTab        key.Binding
	CancelAll      key.Binding
	FocusNext      key.Binding
	FocusPrev      key.Binding
	Quit           key.Binding

	// explorer and command panel
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Submit   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:           key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "open")),
		Save:           key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "save")),
		Run:            key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "run")),
		Build:          key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("^b", "build")),
		Clear:          key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^l", "clear")),
		Diff:           key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("^d", "diff")),
		ToggleExplorer: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("^e", "explorer")),
		ToggleTerminal: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^t", "terminal")),
		CloseTab:       key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("^w", "close")),
		NextTab:        key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^n", "next tab")),
		PrevTab:        key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("^p", "prev tab")),
		CancelAll:      key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("^k", "cancel")),
		FocusNext:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		FocusPrev:      key.NewBinding(key.WithKeys("shift+tab")),
		Quit:           key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("^q", "quit")),

		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Select:   key.NewBinding(key.WithKeys("enter", " ")),
		Submit:   key.NewBinding(key.WithKeys("enter")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}
}

// ShortHelp implements help.KeyMap for the menu bar
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Open, k.Save, k.Run, k.Build, k.Clear, k.Diff, k.ToggleExplorer,
		k.ToggleTerminal, k.CloseTab, k.NextTab, k.CancelAll, k.FocusNext, k.Quit,
	}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
