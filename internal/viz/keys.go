package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Regenerate key.Binding
	Faster     key.Binding
	Slower     key.Binding
	More       key.Binding
	Fewer      key.Binding
	Pause      key.Binding
	Back       key.Binding
	Forward    key.Binding
	Theme      key.Binding
	Record     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Regenerate, k.Pause, k.Faster, k.Slower, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Regenerate, k.Pause, k.Back, k.Forward},
		{k.Faster, k.Slower, k.More, k.Fewer},
		{k.Theme, k.Record, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Regenerate: key.NewBinding(key.WithKeys("n", "r"), key.WithHelp("n", "new paths")),
	Faster:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
	Slower:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
	More:       key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "more paths")),
	Fewer:      key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "fewer paths")),
	Pause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
	Back:       key.NewBinding(key.WithKeys("["), key.WithHelp("[", "step back")),
	Forward:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "step forward")),
	Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Record:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "record gif")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
