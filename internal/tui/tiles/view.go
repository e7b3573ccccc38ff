package tiles

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/altinukshini/imgsearch-tui/internal/imageinfo"
	"github.com/altinukshini/imgsearch-tui/internal/model"
	"github.com/altinukshini/imgsearch-tui/internal/ui"
)

// Tile is one delivered thumbnail.
type Tile struct {
	Image model.ImageResult
	Size  int
	Info  imageinfo.Info
}

// NewTile builds a tile from thumbnail bytes. Undetectable bytes still make a
// tile; only the info line is left empty.
func NewTile(img model.ImageResult, data []byte) Tile {
	t := Tile{Image: img, Size: len(data)}
	if info, err := imageinfo.Detect(data); err == nil {
		t.Info = info
	}
	return t
}

func (t Tile) Title() string {
	if t.Image.Description != "" {
		return t.Image.Description
	}
	return t.Image.ID
}

// --- Custom delegate ---

type tileDelegate struct {
	disabled *bool
}

func (d tileDelegate) Height() int                              { return 2 }
func (d tileDelegate) Spacing() int                             { return 0 }
func (d tileDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d tileDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(tileItem)
	if !ok {
		return
	}
	t := ti.tile

	num := ui.StyleMuted.Render(fmt.Sprintf("%2d", ti.pos))
	author := ui.StyleInfo.Render(t.Image.Author)
	dims := ui.StyleMuted.Render(fmt.Sprintf("%dx%d", t.Image.Width, t.Image.Height))
	thumb := ui.StyleMuted.Render(humanize.Bytes(uint64(t.Size)))
	if t.Info.Format != "" {
		thumb = ui.StyleMuted.Render(t.Info.String() + " " + humanize.Bytes(uint64(t.Size)))
	}

	line1 := fmt.Sprintf(" %s %s  %s  %s", num, author, dims, thumb)
	line2 := fmt.Sprintf("    %s", t.Title())

	if *d.disabled {
		line1 = ui.StyleMuted.Render(line1)
		line2 = ui.StyleMuted.Render(line2)
	} else if index == m.Index() {
		hl := lipgloss.NewStyle().Background(ui.ColorHighlight).Width(m.Width())
		line1 = hl.Render(line1)
		line2 = hl.Render(line2)
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// --- Item ---

type tileItem struct {
	tile Tile
	pos  int
}

func (t tileItem) FilterValue() string {
	return t.tile.Image.Author + " " + t.tile.Image.Description + " " + t.tile.Image.ID
}

// --- Model ---

type Model struct {
	list     list.Model
	tiles    []Tile
	disabled *bool
	width    int
	height   int
}

func New() Model {
	disabled := new(bool)
	l := list.New(nil, tileDelegate{disabled: disabled}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(true)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("image", "images")
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	// h/l and left/right page through search results, so the list only
	// pages on pgup/pgdown.
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page"))
	l.KeyMap.GoToStart = key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to start"))
	l.KeyMap.GoToEnd = key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "go to end"))
	l.DisableQuitKeybindings()

	return Model{list: l, disabled: disabled}
}

// Reset drops every tile, ready for a new invocation.
func (m *Model) Reset() {
	m.tiles = nil
	m.list.ResetFilter()
	m.list.SetItems(nil)
}

// Add appends a tile in arrival order.
func (m *Model) Add(t Tile) tea.Cmd {
	m.tiles = append(m.tiles, t)
	return m.list.InsertItem(len(m.list.Items()), tileItem{tile: t, pos: len(m.tiles)})
}

// SetDisabled greys out the tiles while a download or search runs.
func (m *Model) SetDisabled(v bool) {
	*m.disabled = v
}

func (m Model) Disabled() bool {
	return *m.disabled
}

func (m Model) Len() int {
	return len(m.tiles)
}

func (m Model) Tiles() []Tile {
	return m.tiles
}

func (m Model) Selected() *Tile {
	if item, ok := m.list.SelectedItem().(tileItem); ok {
		return &item.tile
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "f" && !m.IsFiltering() && len(m.list.Items()) > 0 {
			m.list.KeyMap.Filter.SetEnabled(true)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.tiles) == 0 {
		return ui.StyleMuted.Render("\n  No images. Press / to search.")
	}
	return m.list.View()
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) HasActiveFilter() bool {
	return m.list.FilterState() != list.Unfiltered
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		ui.Keys.Enter,
		ui.Keys.OpenPhoto,
		ui.Keys.OpenAuthor,
		ui.Keys.Filter,
		ui.Keys.PrevPage,
		ui.Keys.NextPage,
	}
}
