package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/five82/tailf/internal/config"
	"github.com/five82/tailf/internal/follow"
	"github.com/five82/tailf/internal/logging"
	"github.com/five82/tailf/internal/logtail"
	"github.com/five82/tailf/internal/offset"
	"github.com/five82/tailf/internal/prefs"
	"github.com/five82/tailf/internal/render"
	"github.com/five82/tailf/internal/state"
	"github.com/five82/tailf/internal/target"
	"github.com/five82/tailf/internal/ui"
	"github.com/five82/tailf/internal/watch"
	"github.com/five82/tailf/internal/window"
)

// Options configure a tailf run. Zero values fall back to the config file.
type Options struct {
	Path       string
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/tailf/prefs.toml

	Lines  int // zero uses config
	Head   bool
	Follow bool
	// Resume continues from the stored cursor; it implies Follow.
	Resume  bool
	Reverse bool
	Wait    bool
	RateHz  int // zero uses config
	// TUI shows the full-screen viewer; it implies Follow.
	TUI       bool
	Color     bool
	Highlight bool
	LogLevel  string // empty uses config

	Stdout io.Writer // nil uses os.Stdout
	Stderr io.Writer // nil uses os.Stderr
}

// Run prints the selected window of opts.Path and, in follow mode, keeps
// printing appended lines until ctx is canceled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = applyOverrides(cfg, opts)
	logging.Init(cfg.LogLevel, logOutput(opts))

	following := opts.Follow || opts.Resume || opts.TUI

	file, abs, err := open(ctx, opts, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	w := window.FromCount(cfg.Lines, opts.Head)
	st := follow.NewState(file, w.Direction)
	defer st.Close()

	var cursors *offset.Store
	resumed := false
	if opts.Resume {
		cursors, err = offset.Open(cfg.StateDB)
		if err != nil {
			return err
		}
		defer cursors.Close()

		resumed, err = resume(ctx, cursors, st, abs, file)
		if err != nil {
			return err
		}
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Warn().Err(err).Msg("prefs unavailable, using defaults")
	}
	themeName := cfg.Theme
	if themeName == "" {
		themeName = userPrefs.Theme
	}
	if !slices.Contains(ui.ThemeNames(), themeName) {
		log.Warn().Str("theme", themeName).Strs("available", ui.ThemeNames()).Msg("unknown theme, using default")
	}

	var store *state.Store
	var sink follow.Sink
	if opts.TUI {
		store = state.NewStore(abs, state.DefaultLimit)
		sink = store
	} else {
		sink = newPrinter(opts, cfg, abs, themeName)
	}

	if !resumed {
		if err := initialRender(st, w, sink, following); err != nil {
			return err
		}
	}
	if !following {
		return nil
	}

	loop := &follow.Loop{
		State:    st,
		Signal:   newSignal(abs),
		Sink:     sink,
		Interval: cfg.PollInterval(),
	}
	if closer, ok := loop.Signal.(io.Closer); ok {
		defer closer.Close()
	}
	if cursors != nil {
		loop.Store = cursors
		loop.Path = abs
	}

	if !opts.TUI {
		return loop.Run(ctx)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	uiOpts := ui.Options{
		Store:     store,
		Path:      abs,
		Tick:      cfg.PollInterval(),
		ThemeName: themeName,
		PrefsPath: prefsPath,
		Reverse:   opts.Reverse || userPrefs.Reverse,
	}
	if cfg.Highlight {
		uiOpts.Highlight = render.NewHighlighter(abs)
	}
	return runWithViewer(ctx, loop, uiOpts)
}

// logOutput keeps diagnostics off the terminal while the viewer owns it; the
// viewer shows read failures itself.
func logOutput(opts Options) io.Writer {
	if opts.TUI {
		return io.Discard
	}
	return opts.Stderr
}

func applyOverrides(cfg config.Config, opts Options) config.Config {
	if opts.Lines > 0 {
		cfg.Lines = opts.Lines
	}
	if opts.RateHz > 0 {
		cfg.RateHz = opts.RateHz
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	cfg.Color = cfg.Color || opts.Color
	cfg.Highlight = cfg.Highlight || opts.Highlight
	return cfg
}

func open(ctx context.Context, opts Options, cfg config.Config) (*os.File, string, error) {
	if opts.Wait {
		return target.WaitOpen(ctx, opts.Path, cfg.PollInterval(), cfg.WaitMax)
	}
	return target.Open(opts.Path)
}

// resume positions st at the stored cursor for abs. It reports false when
// there is no usable cursor and the normal initial render should run.
func resume(ctx context.Context, cursors *offset.Store, st *follow.State, abs string, file *os.File) (bool, error) {
	c, ok, err := cursors.Get(ctx, abs)
	if err != nil {
		return false, err
	}
	if !ok {
		log.Info().Str("path", abs).Msg("no stored cursor, starting from the window")
		return false, nil
	}

	info, err := file.Stat()
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", abs, err)
	}
	if c.Offset > info.Size() {
		log.Info().
			Str("path", abs).
			Int64("offset", c.Offset).
			Int64("size", info.Size()).
			Msg("file is shorter than stored cursor, discarding it")
		if err := cursors.Delete(ctx, abs); err != nil {
			log.Warn().Err(err).Str("path", abs).Msg("stale cursor not deleted")
		}
		return false, nil
	}

	if err := st.Restore(c); err != nil {
		return false, err
	}
	log.Info().Str("path", abs).Int64("offset", c.Offset).Int("last_index", c.LastIndex).Msg("resuming from stored cursor")
	return true, nil
}

// initialRender scans the requested window once and hands it to sink. A
// scan failure still renders what was read; it is fatal only when not
// following.
func initialRender(st *follow.State, w window.Window, sink follow.Sink, following bool) error {
	lines, last, scanErr := logtail.ScanWithLast(st.Reader(), w)
	st.Last = last

	if err := sink.Emit(lines, w.Direction); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	if scanErr == nil {
		return nil
	}

	var se *logtail.ScanError
	if !errors.As(scanErr, &se) || !following {
		return scanErr
	}
	st.Carry(se.Partial)
	log.Warn().Err(se.Err).Int("line", se.Line).Int("partial", len(se.Lines)).Msg("initial scan failed")
	if store, ok := sink.(*state.Store); ok {
		store.Fail(scanErr)
	}
	return nil
}

func newPrinter(opts Options, cfg config.Config, abs, themeName string) *render.Printer {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	var printerOpts []render.Option
	if cfg.Color {
		muted := ui.GetTheme(themeName).Muted
		printerOpts = append(printerOpts, render.WithIndexStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(muted))))
	}
	if cfg.Highlight {
		printerOpts = append(printerOpts, render.WithHighlighter(render.NewHighlighter(abs)))
	}
	return render.NewPrinter(stdout, opts.Reverse, printerOpts...)
}

// newSignal prefers filesystem notifications and falls back to polling.
func newSignal(abs string) watch.Signal {
	watcher, err := watch.New(abs)
	if err != nil {
		log.Warn().Err(err).Str("path", abs).Msg("file watching unavailable, polling instead")
		return watch.Poll{}
	}
	return watcher
}

// runWithViewer runs the follow loop in the background while the viewer
// owns the terminal. Quitting the viewer stops the loop.
func runWithViewer(ctx context.Context, loop *follow.Loop, opts ui.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
	}()

	uiErr := ui.Run(ctx, opts)
	cancel()
	return errors.Join(uiErr, <-loopErr)
}
