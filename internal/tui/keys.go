package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard key bindings with built-in help text.
type KeyMap struct {
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	PrevServer key.Binding
	NextServer key.Binding
	MinDown    key.Binding
	MinUp      key.Binding
	MaxDown    key.Binding
	MaxUp      key.Binding
	Period     key.Binding
	Export     key.Binding
	Reload     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		PrevServer: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev server"),
		),
		NextServer: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next server"),
		),
		MinDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "min -"),
		),
		MinUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "min +"),
		),
		MaxDown: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "max -"),
		),
		MaxUp: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "max +"),
		),
		Period: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "period"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevServer, k.NextServer, k.Period, k.Export, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevServer, k.NextServer, k.Period},
		{k.MinDown, k.MinUp, k.MaxDown, k.MaxUp},
		{k.Export, k.Reload, k.Help, k.Quit},
	}
}
