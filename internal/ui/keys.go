package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Open        key.Binding
	Parent      key.Binding
	Search      key.Binding
	Leave       key.Binding
	Toggle      key.Binding
	Stop        key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	SeekTo      key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	Invalidate  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/play")),
		Parent:      key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "parent dir")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Leave:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Stop:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		SeekBack:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "back 5%")),
		SeekForward: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "forward 5%")),
		SeekTo:      key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "seek to n/10")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ScrollLeft:  key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "scroll left")),
		ScrollRight: key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "scroll right")),
		Invalidate:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "invalidate cache")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.Toggle, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Parent},
		{k.Search, k.Leave, k.Invalidate},
		{k.Toggle, k.Stop, k.SeekBack, k.SeekForward, k.SeekTo},
		{k.ZoomIn, k.ZoomOut, k.ScrollLeft, k.ScrollRight},
		{k.Help, k.Quit},
	}
}
