package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEnterDefaultsToNo(t *testing.T) {
	m := New("Delete", "Delete 2 references?", "delete-refs", []string{"a", "b"})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.IsActive() {
		t.Fatal("dialog should close on enter")
	}
	res := cmd().(ResultMsg)
	if res.Confirmed {
		t.Fatal("enter without toggling should answer no")
	}
	if res.Action != "delete-refs" {
		t.Fatalf("unexpected action %q", res.Action)
	}
}

func TestTabThenEnterConfirms(t *testing.T) {
	m := New("Clear", "Clear all?", "clear-refs", nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if res := cmd().(ResultMsg); !res.Confirmed {
		t.Fatal("expected confirmation after toggling to yes")
	}
}

func TestYKeyCarriesData(t *testing.T) {
	m := New("Delete", "Delete?", "delete-ref", "abc")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	res := cmd().(ResultMsg)
	if !res.Confirmed || res.Data.(string) != "abc" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestInactiveIgnoresKeys(t *testing.T) {
	m := New("Delete", "Delete?", "delete-ref", nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if cmd != nil {
		t.Fatal("closed dialog should not answer again")
	}
	if m.View() != "" {
		t.Fatal("closed dialog should render nothing")
	}
}
