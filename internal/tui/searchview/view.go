package searchview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/imgsearch-tui/internal/pagination"
	"github.com/altinukshini/imgsearch-tui/internal/ui"
)

// SubmitMsg asks the parent to start a search for Query.
type SubmitMsg struct {
	Query string
}

// Model is the query bar: input, loading indicator, inline error label and
// the page bar below the results.
type Model struct {
	input   textinput.Model
	spinner spinner.Model
	busy    bool
	errText string
	pages   pagination.Window
	width   int
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search images"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.ShowSuggestions = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.StyleInfo

	return Model{input: ti, spinner: sp}
}

func (m *Model) Focus() tea.Cmd {
	if m.busy {
		return nil
	}
	return m.input.Focus()
}

func (m *Model) Blur() {
	m.input.Blur()
}

func (m Model) Focused() bool {
	return m.input.Focused()
}

func (m Model) Query() string {
	return strings.TrimSpace(m.input.Value())
}

func (m *Model) SetQuery(q string) {
	m.input.SetValue(q)
	m.input.CursorEnd()
}

// SetBusy disables the input and pager while an invocation runs. Leaving
// the busy state clears the query text.
func (m *Model) SetBusy(busy bool) tea.Cmd {
	m.busy = busy
	if busy {
		m.input.Blur()
		return m.spinner.Tick
	}
	m.input.SetValue("")
	return nil
}

func (m Model) Busy() bool {
	return m.busy
}

func (m *Model) SetError(text string) {
	m.errText = text
}

func (m *Model) ClearError() {
	m.errText = ""
}

func (m Model) Error() string {
	return m.errText
}

func (m *Model) SetSuggestions(s []string) {
	m.input.SetSuggestions(s)
}

func (m *Model) SetPages(w pagination.Window) {
	m.pages = w
}

func (m Model) Pages() pagination.Window {
	return m.pages
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-24, 10)

	case tea.KeyMsg:
		if !m.input.Focused() || m.busy {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			q := m.Query()
			if q == "" {
				return m, nil
			}
			return m, func() tea.Msg { return SubmitMsg{Query: q} }
		case "esc":
			if m.errText != "" {
				m.errText = ""
				return m, nil
			}
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the input line and, below it, the error label or a blank
// line.
func (m Model) View() string {
	line := m.input.View()
	if m.busy {
		line = ui.StyleMuted.Render(m.input.Prompt+"searching ") + m.spinner.View()
	}
	status := ""
	if m.errText != "" {
		status = ui.StyleErrorLabel.Render(m.errText) + ui.StyleMuted.Render("  esc: dismiss")
	}
	return " " + line + "\n " + status
}

// PagerView renders the first/prev/window/next/last bar.
func (m Model) PagerView() string {
	w := m.pages
	if w.Total < 1 {
		return ""
	}
	btn := func(label string, enabled bool) string {
		if !enabled || m.busy {
			return ui.StyleDisabled.Render(label)
		}
		return ui.StylePage.Render(label)
	}

	parts := []string{btn("«", w.CanFirst), btn("‹", w.CanPrev)}
	for _, p := range w.Pages {
		label := fmt.Sprintf("%d", p)
		if p == w.Current {
			parts = append(parts, ui.StylePageCurrent.Render(label))
		} else {
			parts = append(parts, btn(label, true))
		}
	}
	parts = append(parts, btn("›", w.CanNext), btn("»", w.CanLast))
	bar := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	return " " + bar + ui.StyleMuted.Render(fmt.Sprintf("  page %d of %d", w.Current, w.Total))
}
