package tiles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/imgsearch-tui/internal/model"
)

func loaded(n int) Model {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	for i := 0; i < n; i++ {
		m.Add(NewTile(model.ImageResult{
			ID:          string(rune('a' + i)),
			Author:      "Ansel",
			Description: "Mountain",
			Width:       640,
			Height:      480,
		}, []byte("not an image")))
	}
	return m
}

func TestAddKeepsArrivalOrder(t *testing.T) {
	m := loaded(3)
	if m.Len() != 3 {
		t.Fatalf("expected 3 tiles, got %d", m.Len())
	}
	if got := m.Tiles()[2].Image.ID; got != "c" {
		t.Fatalf("expected third tile to be c, got %q", got)
	}
	if sel := m.Selected(); sel == nil || sel.Image.ID != "a" {
		t.Fatalf("expected first tile selected, got %+v", sel)
	}
}

func TestUndetectableBytesStillMakeTile(t *testing.T) {
	tile := NewTile(model.ImageResult{ID: "x"}, []byte("junk"))
	if tile.Info.Format != "" {
		t.Fatalf("expected empty info, got %+v", tile.Info)
	}
	if tile.Size != 4 {
		t.Fatalf("expected size 4, got %d", tile.Size)
	}
	if tile.Title() != "x" {
		t.Fatalf("expected ID as title fallback, got %q", tile.Title())
	}
}

func TestResetClearsTiles(t *testing.T) {
	m := loaded(2)
	m.Reset()
	if m.Len() != 0 || len(m.list.Items()) != 0 {
		t.Fatalf("expected no tiles after reset, got %d/%d", m.Len(), len(m.list.Items()))
	}
	if m.Selected() != nil {
		t.Fatal("expected no selection after reset")
	}
	if !strings.Contains(m.View(), "No images") {
		t.Errorf("expected empty view, got:\n%s", m.View())
	}
}

func TestFilterShowsAfterPressingF(t *testing.T) {
	m := loaded(2)
	if m.list.FilterState() != list.Unfiltered {
		t.Fatalf("expected Unfiltered before pressing f, got %v", m.list.FilterState())
	}

	fKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}}
	m, _ = m.Update(fKey)

	if !m.IsFiltering() {
		t.Fatal("IsFiltering() should return true after pressing f")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.IsFiltering() {
		t.Error("should NOT be filtering after pressing esc")
	}
}

func TestLKeyDoesNotTriggerInternalPageNav(t *testing.T) {
	m := loaded(12)
	initialPage := m.list.Paginator.Page

	lKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}
	m, _ = m.Update(lKey)

	if m.list.Paginator.Page != initialPage {
		t.Errorf("pressing 'l' should not change internal page: was %d, now %d",
			initialPage, m.list.Paginator.Page)
	}
}

func TestDisabledIsShared(t *testing.T) {
	m := loaded(1)
	copied := m
	m.SetDisabled(true)
	if !copied.Disabled() {
		t.Fatal("disabled flag should be visible through value copies")
	}
}
