package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tailf/internal/logtail"
	"github.com/five82/tailf/internal/prefs"
	"github.com/five82/tailf/internal/state"
	"github.com/five82/tailf/internal/window"
)

func keyPress(s string) tea.KeyMsg {
	if s == "ctrl+c" {
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got
}

// newTestModel builds a sized viewer over a store holding n lines.
func newTestModel(t *testing.T, n int) (Model, *state.Store) {
	t.Helper()
	store := state.NewStore("/var/log/app.log", 0)
	var lines []logtail.Line
	for i := 1; i <= n; i++ {
		lines = append(lines, logtail.Line{Index: i, Content: fmt.Sprintf("entry %d\n", i)})
	}
	if err := store.Emit(lines, window.TopToBottom); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	m := New(Options{
		Store:     store,
		Path:      "/var/log/app.log",
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})
	m = update(t, m, snapshotMsg(store.Snapshot()))
	return m, store
}

func TestView_LoadingBeforeSize(t *testing.T) {
	m := New(Options{})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() = %q, want Loading...", got)
	}
}

func TestView_ShowsLinesAndStatus(t *testing.T) {
	m, _ := newTestModel(t, 3)

	view := m.View()
	for _, want := range []string{"tailf", "/var/log/app.log", "line 3", "FOLLOW", "1: entry 1", "3: entry 3"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestView_ShowsReadErrors(t *testing.T) {
	m, store := newTestModel(t, 1)
	m = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 12})
	store.Fail(errors.New("input/output error"))
	store.Fail(errors.New("input/output error"))
	m = update(t, m, snapshotMsg(store.Snapshot()))

	if view := m.View(); !strings.Contains(view, "read error (2 in a row)") {
		t.Fatalf("View() missing failure count:\n%s", view)
	}
}

func TestFollow_TracksNewestAndPausesOnScroll(t *testing.T) {
	m, store := newTestModel(t, 100)
	if !m.viewport.AtBottom() {
		t.Fatalf("viewport not at bottom while following")
	}

	m = update(t, m, keyPress("k"))
	if m.follow {
		t.Fatalf("follow = true after scrolling up, want paused")
	}

	if err := store.Emit([]logtail.Line{{Index: 101, Content: "late\n"}}, window.TopToBottom); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	m = update(t, m, snapshotMsg(store.Snapshot()))
	if m.viewport.AtBottom() {
		t.Fatalf("viewport jumped to bottom while paused")
	}

	m = update(t, m, keyPress("G"))
	if !m.follow || !m.viewport.AtBottom() {
		t.Fatalf("after G: follow=%v atBottom=%v, want both true", m.follow, m.viewport.AtBottom())
	}

	m = update(t, m, keyPress("f"))
	if m.follow {
		t.Fatalf("follow = true after f, want toggled off")
	}
	m = update(t, m, keyPress("f"))
	if !m.follow {
		t.Fatalf("follow = false after second f, want on")
	}
}

func TestReverse_ShowsNewestFirstAndSavesPrefs(t *testing.T) {
	m, _ := newTestModel(t, 50)

	m = update(t, m, keyPress("r"))
	if !m.reverse {
		t.Fatalf("reverse = false after r")
	}
	if !m.viewport.AtTop() {
		t.Fatalf("viewport not at top while following in reverse")
	}
	body := m.viewport.View()
	if first := strings.SplitN(body, "\n", 2)[0]; !strings.Contains(first, "50: entry 50") {
		t.Fatalf("first visible row = %q, want newest line", first)
	}

	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if !saved.Reverse {
		t.Fatalf("saved prefs = %+v, want reverse", saved)
	}
}

func TestCycleTheme_SavesPrefs(t *testing.T) {
	m, _ := newTestModel(t, 1)
	start := m.theme.Name

	m = update(t, m, keyPress("T"))
	if m.theme.Name != NextTheme(start) {
		t.Fatalf("theme = %q, want %q", m.theme.Name, NextTheme(start))
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", saved.Theme, m.theme.Name)
	}
}

func TestHelpToggleShrinksViewport(t *testing.T) {
	m, _ := newTestModel(t, 1)
	short := m.viewport.Height

	m = update(t, m, keyPress("?"))
	if !m.help.ShowAll {
		t.Fatalf("help.ShowAll = false after ?")
	}
	if m.viewport.Height >= short {
		t.Fatalf("viewport height = %d with full help, want less than %d", m.viewport.Height, short)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel(t, 1)
			_, cmd := m.Update(keyPress(k))
			if cmd == nil {
				t.Fatalf("Update(%s) returned nil cmd, want quit", k)
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Fatalf("Update(%s) cmd did not quit", k)
			}
		})
	}
}

func TestTickRequestsSnapshot(t *testing.T) {
	m, _ := newTestModel(t, 1)
	_, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Fatalf("tick returned nil cmd, want snapshot fetch and next tick")
	}
}
