package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/tailf/internal/prefs"
	"github.com/five82/tailf/internal/render"
	"github.com/five82/tailf/internal/state"
)

const defaultTick = 50 * time.Millisecond

// Options configures the viewer.
type Options struct {
	Store     *state.Store
	Path      string
	Tick      time.Duration
	ThemeName string
	PrefsPath string
	Reverse   bool
	Highlight *render.Highlighter
}

// Model is the Bubble Tea model of the follow viewer.
type Model struct {
	store     *state.Store
	path      string
	prefsPath string
	tick      time.Duration
	highlight *render.Highlighter

	keys  keyMap
	help  help.Model
	theme Theme

	width    int
	height   int
	ready    bool
	viewport viewport.Model

	snapshot state.Snapshot
	// follow keeps the newest line in view as batches arrive.
	follow  bool
	reverse bool
}

// New creates the viewer model.
func New(opts Options) Model {
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	return Model{
		store:     opts.Store,
		path:      opts.Path,
		prefsPath: opts.PrefsPath,
		tick:      tick,
		highlight: opts.Highlight,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(themeName),
		follow:    true,
		reverse:   opts.Reverse,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.tick))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.ready = true
		}
		m.layout()
		m.refreshContent()
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.tick))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.refreshContent()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.renderHeader() + "\n" + m.viewport.View() + "\n" + m.renderFooter()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		m.follow = m.atNewest()
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		m.follow = m.atNewest()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfViewUp()
		m.follow = m.atNewest()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfViewDown()
		m.follow = m.atNewest()
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		m.follow = m.atNewest()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.follow = m.atNewest()

	case key.Matches(msg, m.keys.ToggleFollow):
		m.follow = !m.follow
		if m.follow {
			m.gotoNewest()
		}

	case key.Matches(msg, m.keys.Reverse):
		m.reverse = !m.reverse
		m.savePrefs()
		m.refreshContent()
		if m.follow {
			m.gotoNewest()
		}

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refreshContent()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		m.refreshContent()
	}
	return m, nil
}

// atNewest reports whether the newest line is at the visible edge.
func (m Model) atNewest() bool {
	if m.reverse {
		return m.viewport.AtTop()
	}
	return m.viewport.AtBottom()
}

func (m *Model) gotoNewest() {
	if m.reverse {
		m.viewport.GotoTop()
		return
	}
	m.viewport.GotoBottom()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Reverse: m.reverse}); err != nil {
		log.Warn().Err(err).Str("path", m.prefsPath).Msg("prefs not saved")
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the viewer and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return errors.New("viewer requires a line store")
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
