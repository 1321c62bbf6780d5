// Package watch turns filesystem notifications into the single "content
// changed" flag the follow loop polls.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Signal reports whether the watched file changed since the last call.
type Signal interface {
	Consume() bool
}

// Flag is a change flag that any goroutine may set and one consumer clears.
type Flag struct {
	changed atomic.Bool
}

// Set marks the flag.
func (f *Flag) Set() {
	f.changed.Store(true)
}

// Consume reports whether the flag was set and clears it in the same step.
func (f *Flag) Consume() bool {
	return f.changed.CompareAndSwap(true, false)
}

// Poll is a Signal that always reports a change. It is used when no
// filesystem watcher is available, so every cycle re-reads.
type Poll struct{}

// Consume always returns true.
func (Poll) Consume() bool { return true }

// Watcher sets a Flag whenever fsnotify reports activity on one file.
// It watches the parent directory so a file that is created or replaced
// after startup is still seen.
type Watcher struct {
	flag    Flag
	path    string
	fsw     *fsnotify.Watcher
	done    chan struct{}
	closing sync.Once
}

// New starts watching path. The flag starts set so the first cycle always
// reads.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{path: abs, fsw: fsw, done: make(chan struct{})}
	w.flag.Set()
	go w.run()
	return w, nil
}

// Consume reports whether the file changed since the previous call.
func (w *Watcher) Consume() bool {
	return w.flag.Consume()
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closing.Do(func() {
		err = w.fsw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.flag.Set()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// A dropped event may hide a write; let the loop look anyway.
			log.Warn().Err(err).Str("path", w.path).Msg("watch error")
			w.flag.Set()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod) != 0
}
