package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause key.Binding
	Reset key.Binding
	Next  key.Binding
	Raise key.Binding
	Lower key.Binding
	Theme key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Pause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
	Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rebuild network")),
	Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next reaction")),
	Raise: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "rate constant +5%")),
	Lower: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "rate constant -5%")),
	Theme: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle theme")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset, k.Quit},
		{k.Next, k.Raise, k.Lower},
		{k.Theme, k.Help},
	}
}
