package infoview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/altinukshini/imgsearch-tui/internal/host"
	"github.com/altinukshini/imgsearch-tui/internal/tui/tiles"
	"github.com/altinukshini/imgsearch-tui/internal/ui"
)

// Model shows attribution and shape of the selected tile.
type Model struct {
	tile     *tiles.Tile
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

func New() Model {
	return Model{}
}

func (m *Model) SetTile(t *tiles.Tile) {
	m.tile = t
	if m.ready {
		m.viewport.SetContent(m.render())
		m.viewport.GotoTop()
	}
}

func (m Model) Tile() *tiles.Tile {
	return m.tile
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		if !m.ready {
			m.viewport = viewport.New(wsm.Width, wsm.Height-1)
			m.ready = true
		} else {
			m.viewport.Width = wsm.Width
			m.viewport.Height = wsm.Height - 1
		}
		m.viewport.SetContent(m.render())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.tile == nil {
		return ui.StyleMuted.Render("\n  Select an image to see its details")
	}
	header := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(" Image " + m.tile.Image.ID)
	return header + "\n" + m.viewport.View()
}

func (m Model) render() string {
	if m.tile == nil {
		return ""
	}
	img := m.tile.Image
	bold := lipgloss.NewStyle().Bold(true)
	label := lipgloss.NewStyle().Foreground(ui.ColorMuted).Width(12)
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	link := ui.StyleInfo

	row := func(l, v string) string {
		if v == "" {
			v = "-"
		}
		return "  " + label.Render(l) + value.Render(v) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + bold.Render(m.tile.Title()) + "\n\n")

	b.WriteString(row("Author", img.Author))
	if ref := img.ReferralURL(host.ReferralSource); ref != "" {
		b.WriteString("  " + label.Render("Profile") + link.Render(ref) + "\n")
	}
	if img.HTMLURL != "" {
		b.WriteString("  " + label.Render("Photo") + link.Render(img.HTMLURL) + "\n")
	}
	b.WriteString("\n")

	if img.Width > 0 && img.Height > 0 {
		b.WriteString(row("Original", fmt.Sprintf("%dx%d", img.Width, img.Height)))
	}
	thumb := humanize.Bytes(uint64(m.tile.Size))
	if m.tile.Info.Format != "" {
		thumb = m.tile.Info.String() + ", " + thumb
	}
	b.WriteString(row("Thumbnail", thumb))
	b.WriteString("\n")

	b.WriteString("  " + ui.StyleMuted.Render("enter: add as reference  o: photo page  a: author page") + "\n")
	return b.String()
}
