package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the tour's bindings. It implements help.KeyMap.
type keyMap struct {
	Next        key.Binding
	Jump        key.Binding
	Acknowledge key.Binding
	Complete    key.Binding
	Skip        key.Binding
	Restart     key.Binding
	Close       key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/→", "next"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"),
			key.WithHelp("1-8", "jump"),
		),
		Acknowledge: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "finish"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "hide"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// setTourEnabled toggles every binding that drives the sequencer.
func (k *keyMap) setTourEnabled(enabled bool) {
	for _, b := range []*key.Binding{&k.Next, &k.Jump, &k.Acknowledge, &k.Complete, &k.Skip, &k.Restart, &k.Close} {
		b.SetEnabled(enabled)
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Acknowledge, k.Complete, k.Skip, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Jump, k.Acknowledge},
		{k.Complete, k.Skip, k.Restart, k.Close},
		{k.Quit},
	}
}
