package follow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/five82/tailf/internal/logtail"
	"github.com/five82/tailf/internal/offset"
	"github.com/five82/tailf/internal/watch"
	"github.com/five82/tailf/internal/window"
)

const defaultInterval = 50 * time.Millisecond

// Sink receives every batch the loop produces, in the scan's emission order.
type Sink interface {
	Emit(lines []logtail.Line, dir window.Direction) error
}

// failureSink is implemented by sinks that want to show scan failures.
type failureSink interface {
	Fail(err error)
}

// CursorStore persists the loop's resumable position.
type CursorStore interface {
	Save(ctx context.Context, file string, c offset.Cursor) error
}

// Loop re-scans a growing stream each time Signal reports a change.
type Loop struct {
	State  *State
	Signal watch.Signal
	Sink   Sink
	// Store and Path are optional; without them nothing is persisted.
	Store CursorStore
	Path  string
	// Interval paces cycles. Zero means 50ms (20 Hz).
	Interval time.Duration

	failures int
	retry    bool
}

// Run cycles until ctx is canceled, then saves the cursor and returns nil.
// Scan failures are reported to the sink and retried on the next cycle;
// only sink errors end the loop early.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := l.cycle(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			l.save(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
		}
	}
}

// cycle performs one scan-reconcile-emit step.
func (l *Loop) cycle(ctx context.Context) error {
	if !l.Signal.Consume() && !l.retry {
		return nil
	}
	l.retry = false

	batch, err := logtail.Scan(l.State.Reader(), window.All(l.State.Direction()))
	if err != nil {
		var scanErr *logtail.ScanError
		if !errors.As(err, &scanErr) {
			return err
		}
		return l.fail(ctx, scanErr)
	}
	if len(batch) == 0 {
		return nil
	}

	if err := l.emit(l.State.Apply(batch)); err != nil {
		return err
	}
	l.failures = 0
	l.save(ctx)
	return nil
}

// fail keeps the lines and the unfinished line read before the error,
// reports it and schedules a retry regardless of the change signal.
func (l *Loop) fail(ctx context.Context, scanErr *logtail.ScanError) error {
	l.failures++
	l.retry = true
	log.Warn().
		Err(scanErr.Err).
		Int("line", l.State.LastIndex()+scanErr.Line).
		Int("partial", len(scanErr.Lines)).
		Int("failures", l.failures).
		Msg("scan failed")

	if len(scanErr.Lines) > 0 {
		if err := l.emit(l.State.Apply(scanErr.Lines)); err != nil {
			return err
		}
	}
	l.State.Carry(scanErr.Partial)
	if len(scanErr.Lines) > 0 {
		l.save(ctx)
	}
	if fs, ok := l.Sink.(failureSink); ok {
		fs.Fail(scanErr)
	}
	return nil
}

func (l *Loop) emit(lines []logtail.Line) error {
	if len(lines) == 0 {
		return nil
	}
	if err := l.Sink.Emit(lines, l.State.Direction()); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	return nil
}

func (l *Loop) save(ctx context.Context) {
	if l.Store == nil || l.Path == "" {
		return
	}
	c, err := l.State.Cursor()
	if err != nil {
		log.Warn().Err(err).Str("path", l.Path).Msg("cursor unavailable")
		return
	}
	if err := l.Store.Save(ctx, l.Path, c); err != nil {
		log.Warn().Err(err).Str("path", l.Path).Msg("cursor not saved")
	}
}
