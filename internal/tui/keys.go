package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New            key.Binding
	Edit           key.Binding
	Delete         key.Binding
	Layout         key.Binding
	Search         key.Binding
	FilterStatus   key.Binding
	FilterPriority key.Binding
	ClearFilters   key.Binding
	CycleStatus    key.Binding
	MovePrev       key.Binding
	MoveNext       key.Binding
	MarkAll        key.Binding
	Export         key.Binding
	Tab1           key.Binding
	Tab2           key.Binding
	Tab3           key.Binding
	Tab4           key.Binding
	Tab5           key.Binding
	Tab            key.Binding
	Help           key.Binding
	Enter          key.Binding
	Back           key.Binding
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Quit           key.Binding
}

var keys = keyMap{
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Layout: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "list/kanban"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	FilterStatus: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "status filter"),
	),
	FilterPriority: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "priority filter"),
	),
	ClearFilters: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear filters"),
	),
	CycleStatus: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "cycle status"),
	),
	MovePrev: key.NewBinding(
		key.WithKeys("<", ","),
		key.WithHelp("<", "move left"),
	),
	MoveNext: key.NewBinding(
		key.WithKeys(">", "."),
		key.WithHelp(">", "move right"),
	),
	MarkAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "mark all read"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "dashboard"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "projects"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "my tasks"),
	),
	Tab4: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "notifications"),
	),
	Tab5: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "settings"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left column"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right column"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.Delete, k.Layout, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Edit, k.Delete, k.Export},
		{k.Layout, k.Search, k.FilterStatus, k.FilterPriority, k.ClearFilters},
		{k.CycleStatus, k.MovePrev, k.MoveNext, k.MarkAll},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4, k.Tab5},
		{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Back, k.Quit},
	}
}
