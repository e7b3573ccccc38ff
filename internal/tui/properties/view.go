package properties

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/imgsearch-tui/internal/config"
	"github.com/altinukshini/imgsearch-tui/internal/model"
	"github.com/altinukshini/imgsearch-tui/internal/ui"
)

// Values are the user-adjustable properties.
type Values struct {
	PerPage  int
	Quality  int
	IconSize int
}

func FromConfig(cfg config.Config) Values {
	return Values{PerPage: cfg.PerPage, Quality: cfg.Quality, IconSize: cfg.IconSize}
}

// ApplyTo copies the values into cfg.
func (v Values) ApplyTo(cfg *config.Config) {
	cfg.PerPage = v.PerPage
	cfg.Quality = v.Quality
	cfg.IconSize = v.IconSize
}

// ResultMsg is emitted when the user applies or cancels the overlay.
type ResultMsg struct {
	Applied bool
	Values  Values
}

type field int

const (
	fieldPerPage field = iota
	fieldQuality
	fieldIconSize
	fieldCount
)

type bounds struct {
	label string
	lo    int
	hi    int
	step  int
	def   int
}

var fields = [fieldCount]bounds{
	fieldPerPage:  {label: "Per page:", lo: model.MinPerPage, hi: model.MaxPerPage, step: 1, def: model.DefaultPerPage},
	fieldQuality:  {label: "Quality:", lo: config.MinQuality, hi: config.MaxQuality, step: 5, def: config.DefaultQuality},
	fieldIconSize: {label: "Icon size:", lo: config.MinIconSize, hi: config.MaxIconSize, step: 10, def: config.DefaultIconSize},
}

// Model is the properties overlay. It starts active.
type Model struct {
	active  bool
	focused field
	values  [fieldCount]int
	width   int
	height  int
}

func New(current Values) Model {
	m := Model{active: true}
	m.values[fieldPerPage] = current.PerPage
	m.values[fieldQuality] = current.Quality
	m.values[fieldIconSize] = current.IconSize
	for f := field(0); f < fieldCount; f++ {
		m.values[f] = clamp(m.values[f], fields[f].lo, fields[f].hi)
	}
	return m
}

func (m Model) IsActive() bool { return m.active }

func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m Model) Values() Values {
	return Values{
		PerPage:  m.values[fieldPerPage],
		Quality:  m.values[fieldQuality],
		IconSize: m.values[fieldIconSize],
	}
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
	case "j", "down", "tab":
		m.moveFocus(1)
	case "k", "up", "shift+tab":
		m.moveFocus(-1)
	case "l", "right", "+":
		m.adjust(1)
	case "h", "left", "-":
		m.adjust(-1)
	case "L", "end":
		m.values[m.focused] = fields[m.focused].hi
	case "H", "home":
		m.values[m.focused] = fields[m.focused].lo
	case "d":
		for f := field(0); f < fieldCount; f++ {
			m.values[f] = fields[f].def
		}
	case "a", "enter":
		m.active = false
		return m, emitResult(true, m.Values())
	case "esc":
		m.active = false
		return m, emitResult(false, Values{})
	}
	return m, nil
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Width(12).Foreground(ui.ColorMuted)
	focusedLabelStyle := lipgloss.NewStyle().Width(12).Bold(true).Foreground(ui.ColorPrimary)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	rangeStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true)

	rows := make([]string, 0, int(fieldCount))
	for f := field(0); f < fieldCount; f++ {
		b := fields[f]
		ls := labelStyle
		cursor := "  "
		if f == m.focused {
			ls = focusedLabelStyle
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
		}
		value := valueStyle.Render(fmt.Sprintf("◂ %3d ▸", m.values[f]))
		rows = append(rows, fmt.Sprintf("%s%s %s  %s", cursor, ls.Render(b.label), value,
			rangeStyle.Render(fmt.Sprintf("%d..%d", b.lo, b.hi))))
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		MarginBottom(1).
		Render("Properties")

	help := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		MarginTop(1).
		Render("h/l: adjust  H/L: min/max  d: defaults  a: apply  esc: cancel")

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Join(rows, "\n"),
		help,
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Width(64).
		Render(body)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m *Model) moveFocus(delta int) {
	next := int(m.focused) + delta
	if next < 0 {
		next = int(fieldCount) - 1
	}
	if next >= int(fieldCount) {
		next = 0
	}
	m.focused = field(next)
}

// adjust moves the focused value by one step, snapping to the step grid and
// staying within bounds.
func (m *Model) adjust(dir int) {
	b := fields[m.focused]
	v := m.values[m.focused]
	if dir > 0 {
		v = (v/b.step + 1) * b.step
	} else {
		v = ((v+b.step-1)/b.step - 1) * b.step
	}
	m.values[m.focused] = clamp(v, b.lo, b.hi)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func emitResult(applied bool, v Values) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Applied: applied, Values: v}
	}
}
