package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Tab        key.Binding
	Enter      key.Binding
	Back       key.Binding
	Refresh    key.Binding
	Search     key.Binding
	Delete     key.Binding
	ClearAll   key.Binding
	Select     key.Binding
	Sort       key.Binding
	OpenPhoto  key.Binding
	OpenAuthor key.Binding
	Properties key.Binding
	Filter     key.Binding
	Up         key.Binding
	Down       key.Binding
	FirstPage  key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	LastPage   key.Binding
}

var Keys = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	ClearAll:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all")),
	Select:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	OpenPhoto:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open photo")),
	OpenAuthor: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "open author")),
	Properties: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "properties")),
	Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	FirstPage:  key.NewBinding(key.WithKeys("H", "home"), key.WithHelp("H", "first page")),
	PrevPage:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/<-", "prev page")),
	NextPage:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/->", "next page")),
	LastPage:   key.NewBinding(key.WithKeys("L", "end"), key.WithHelp("L", "last page")),
}
