package properties

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/imgsearch-tui/internal/config"
)

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func TestAdjustStaysInBounds(t *testing.T) {
	m := New(Values{PerPage: 30, Quality: 3, IconSize: 495})

	m, _ = press(m, "l")
	if got := m.Values().PerPage; got != 30 {
		t.Fatalf("per page should stay at max, got %d", got)
	}

	m, _ = press(m, "j", "l")
	if got := m.Values().Quality; got != 5 {
		t.Fatalf("quality should snap up to 5, got %d", got)
	}
	m, _ = press(m, "h", "h")
	if got := m.Values().Quality; got != 0 {
		t.Fatalf("quality should bottom out at 0, got %d", got)
	}

	m, _ = press(m, "j", "l")
	if got := m.Values().IconSize; got != 500 {
		t.Fatalf("icon size should clamp to 500, got %d", got)
	}
}

func TestNewClampsOutOfRange(t *testing.T) {
	m := New(Values{PerPage: 1, Quality: 400, IconSize: 10})
	v := m.Values()
	if v.PerPage != 5 || v.Quality != 100 || v.IconSize != 80 {
		t.Fatalf("unexpected clamped values %+v", v)
	}
}

func TestApplyEmitsValues(t *testing.T) {
	m := New(FromConfig(config.Default()))
	m, _ = press(m, "h")
	m, cmd := press(m, "a")
	if m.IsActive() {
		t.Fatal("overlay should close on apply")
	}
	if cmd == nil {
		t.Fatal("expected a result command")
	}
	res, ok := cmd().(ResultMsg)
	if !ok || !res.Applied {
		t.Fatalf("expected applied result, got %#v", cmd())
	}
	if res.Values.PerPage != 29 {
		t.Fatalf("expected per page 29, got %d", res.Values.PerPage)
	}

	cfg := config.Default()
	res.Values.ApplyTo(&cfg)
	if cfg.PerPage != 29 {
		t.Fatalf("ApplyTo did not copy per page, got %d", cfg.PerPage)
	}
}

func TestEscCancels(t *testing.T) {
	m := New(FromConfig(config.Default()))
	m, cmd := press(m, "esc")
	if m.IsActive() {
		t.Fatal("overlay should close on esc")
	}
	if res := cmd().(ResultMsg); res.Applied {
		t.Fatal("esc should not apply")
	}
}

func TestDefaultsKey(t *testing.T) {
	m := New(Values{PerPage: 7, Quality: 10, IconSize: 100})
	m, _ = press(m, "d")
	want := FromConfig(config.Default())
	if m.Values() != want {
		t.Fatalf("expected defaults %+v, got %+v", want, m.Values())
	}
}
