package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	NewTask    key.Binding
	Toggle     key.Binding
	Edit       key.Binding
	Delete     key.Binding
	FilterAll  key.Binding
	FilterAct  key.Binding
	FilterDone key.Binding
	NextFilter key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding

	Submit key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NewTask:    key.NewBinding(key.WithKeys("a", "i", "n"), key.WithHelp("a", "add")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		FilterAll:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterAct:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterDone: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		NextFilter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+g"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewTask, k.Toggle, k.Edit, k.Delete, k.NextFilter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NewTask, k.Toggle},
		{k.Edit, k.Delete, k.Reload},
		{k.FilterAll, k.FilterAct, k.FilterDone, k.NextFilter},
		{k.Help, k.Quit},
	}
}

// inputKeyMap is shown while the add or edit line has focus.
type inputKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

func (k inputKeyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Submit, k.Cancel} }
func (k inputKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
