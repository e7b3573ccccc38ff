package confirm

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/imgsearch-tui/internal/ui"
)

// ResultMsg carries the answer back to the parent with the Action and Data
// the dialog was opened with.
type ResultMsg struct {
	Confirmed bool
	Action    string
	Data      any
}

type Model struct {
	Title   string
	Message string
	Action  string
	Data    any
	active  bool
	yes     bool
	width   int
	height  int
}

// New opens a dialog with "No" preselected.
func New(title, message, action string, data any) Model {
	return Model{
		Title:   title,
		Message: message,
		Action:  action,
		Data:    data,
		active:  true,
	}
}

func (m Model) IsActive() bool { return m.active }

func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		return m.answer(true)
	case "n", "N", "esc":
		return m.answer(false)
	case "enter":
		return m.answer(m.yes)
	case "tab", "left", "right", "h", "l":
		m.yes = !m.yes
	}
	return m, nil
}

func (m Model) answer(yes bool) (Model, tea.Cmd) {
	m.active = false
	res := ResultMsg{Confirmed: yes, Action: m.Action, Data: m.Data}
	return m, func() tea.Msg { return res }
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).
		Foreground(ui.ColorWarning).
		Render(m.Title)

	yesStyle := lipgloss.NewStyle().Padding(0, 1).Foreground(ui.ColorMuted)
	noStyle := lipgloss.NewStyle().Padding(0, 1).Foreground(ui.ColorMuted)
	if m.yes {
		yesStyle = yesStyle.Bold(true).Background(ui.ColorSuccess).Foreground(lipgloss.Color("#F9FAFB"))
	} else {
		noStyle = noStyle.Bold(true).Background(ui.ColorFailure).Foreground(lipgloss.Color("#F9FAFB"))
	}

	content := fmt.Sprintf("%s\n\n%s\n\n%s  %s\n\n%s",
		title, m.Message,
		yesStyle.Render("Yes"), noStyle.Render("No"),
		ui.StyleMuted.Render("y/n to confirm, esc to cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(50).
		Render(content)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
