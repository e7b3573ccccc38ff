package refsview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/altinukshini/imgsearch-tui/internal/cache"
	"github.com/altinukshini/imgsearch-tui/internal/ui"
)

type refItem struct {
	entry    cache.RefEntry
	selected bool
}

func (r refItem) Title() string {
	mark := " "
	if r.selected {
		mark = ui.StyleWarning.Render("● ")
	}
	name := r.entry.Description
	if name == "" {
		name = r.entry.ImageID
	}
	size := ui.StyleWarning.Render(humanize.Bytes(uint64(r.entry.Size)))
	return fmt.Sprintf("%s%s  %s", mark, name, size)
}

func (r refItem) Description() string {
	parts := []string{}
	if r.entry.Author != "" {
		parts = append(parts, ui.StyleInfo.Render(r.entry.Author))
	}
	if r.entry.Width > 0 && r.entry.Height > 0 {
		parts = append(parts, ui.StyleMuted.Render(fmt.Sprintf("%s %dx%d", r.entry.Format, r.entry.Width, r.entry.Height)))
	}
	if r.entry.Query != "" {
		parts = append(parts, ui.StyleMuted.Render("“"+r.entry.Query+"”"))
	}
	if !r.entry.StoredAt.IsZero() {
		parts = append(parts, ui.StyleMuted.Render("stored "+humanize.Time(r.entry.StoredAt)))
	}
	return strings.Join(parts, "  ")
}

func (r refItem) FilterValue() string {
	return r.entry.ImageID + " " + r.entry.Description + " " + r.entry.Author + " " + r.entry.Query
}

// SortMode determines how references are ordered.
type SortMode int

const (
	SortByStored SortMode = iota
	SortByAccessed
	SortBySize
)

func (s SortMode) String() string {
	switch s {
	case SortByAccessed:
		return "last used"
	case SortBySize:
		return "size"
	default:
		return "stored"
	}
}

// Model lists the reference library.
type Model struct {
	list      list.Model
	entries   []cache.RefEntry
	selected  map[string]bool
	sortMode  SortMode
	totalSize int64
	width     int
	height    int
	loading   bool
	err       error
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("reference", "references")
	l.SetFilteringEnabled(true)
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	l.DisableQuitKeybindings()

	return Model{list: l, selected: make(map[string]bool), loading: true}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RefsLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.entries = msg.Entries
		m.totalSize = msg.TotalSize
		m.selected = make(map[string]bool)
		m.sortEntries()
		cmd := m.list.SetItems(m.buildItems())
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// One line for the summary header.
		m.list.SetSize(msg.Width, msg.Height-1)

	case tea.KeyMsg:
		if m.IsFiltering() {
			break
		}
		switch msg.String() {
		case " ":
			if item, ok := m.list.SelectedItem().(refItem); ok {
				id := item.entry.ImageID
				if m.selected[id] {
					delete(m.selected, id)
				} else {
					m.selected[id] = true
				}
				return m, m.list.SetItems(m.buildItems())
			}
			return m, nil
		case "s":
			m.sortMode = (m.sortMode + 1) % 3
			m.sortEntries()
			return m, m.list.SetItems(m.buildItems())
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return "\n  Loading references..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press r to retry.", m.err)
	}
	if len(m.entries) == 0 {
		return "\n  No references stored.\n\n  Select an image on the Search tab and press enter to add one."
	}

	header := fmt.Sprintf("  %d references | Total: %s | Sort: %s | s: sort  d: delete  x: clear all",
		len(m.entries),
		humanize.Bytes(uint64(m.totalSize)),
		m.sortMode,
	)
	return ui.StyleMuted.Render(header) + "\n" + m.list.View()
}

// SelectedEntry returns the entry under the cursor, or nil.
func (m Model) SelectedEntry() *cache.RefEntry {
	if item, ok := m.list.SelectedItem().(refItem); ok {
		return &item.entry
	}
	return nil
}

// SelectedEntries returns the multi-selected entries in list order.
func (m Model) SelectedEntries() []cache.RefEntry {
	var out []cache.RefEntry
	for _, e := range m.entries {
		if m.selected[e.ImageID] {
			out = append(out, e)
		}
	}
	return out
}

func (m Model) Entries() []cache.RefEntry {
	return m.entries
}

func (m Model) SelectionCount() int {
	return len(m.selected)
}

func (m *Model) ClearSelection() {
	for k := range m.selected {
		delete(m.selected, k)
	}
}

func (m Model) SortMode() SortMode {
	return m.sortMode
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) HasActiveFilter() bool {
	return m.list.FilterState() != list.Unfiltered
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		ui.Keys.Select,
		ui.Keys.Sort,
		ui.Keys.Delete,
		ui.Keys.ClearAll,
		ui.Keys.Refresh,
	}
}

func (m *Model) sortEntries() {
	switch m.sortMode {
	case SortByStored:
		sort.SliceStable(m.entries, func(i, j int) bool {
			return m.entries[i].StoredAt.After(m.entries[j].StoredAt)
		})
	case SortByAccessed:
		sort.SliceStable(m.entries, func(i, j int) bool {
			return m.entries[i].LastAccessed.After(m.entries[j].LastAccessed)
		})
	case SortBySize:
		sort.SliceStable(m.entries, func(i, j int) bool {
			return m.entries[i].Size > m.entries[j].Size
		})
	}
}

func (m Model) buildItems() []list.Item {
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		items[i] = refItem{entry: e, selected: m.selected[e.ImageID]}
	}
	return items
}
