package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/tailf/internal/logtail"
	"github.com/five82/tailf/internal/window"
)

// DefaultLimit bounds the lines kept for the viewer.
const DefaultLimit = 5000

// Snapshot represents the latest data available to the viewer.
type Snapshot struct {
	Path                string
	Lines               []logtail.Line // chronological, oldest first
	Last                logtail.Line
	HasLast             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsFailing returns true when several follow cycles in a row could not read.
func (s Snapshot) IsFailing() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot. The follow loop
// writes batches through Emit and Fail; the viewer reads Snapshot.
type Store struct {
	mu       sync.RWMutex
	limit    int
	snapshot Snapshot
}

// NewStore creates a store for path that keeps at most limit lines. A
// non-positive limit uses DefaultLimit.
func NewStore(path string, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{limit: limit, snapshot: Snapshot{Path: path}}
}

// Emit appends a batch given in dir's emission order.
func (s *Store) Emit(lines []logtail.Line, dir window.Direction) error {
	s.Update(logtail.Chronological(lines, dir), nil)
	return nil
}

// Fail records a failed cycle without discarding lines already shown.
func (s *Store) Fail(err error) {
	s.Update(nil, err)
}

// Update appends chronological lines. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(lines []logtail.Line, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if len(lines) > 0 {
		s.snapshot.Lines = append(s.snapshot.Lines, lines...)
		if s.limit > 0 && len(s.snapshot.Lines) > s.limit {
			drop := len(s.snapshot.Lines) - s.limit
			s.snapshot.Lines = append([]logtail.Line(nil), s.snapshot.Lines[drop:]...)
		}
		s.snapshot.Last = lines[len(lines)-1]
		s.snapshot.HasLast = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Lines = cloneLines(s.snapshot.Lines)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneLines(lines []logtail.Line) []logtail.Line {
	if len(lines) == 0 {
		return nil
	}
	dup := make([]logtail.Line, len(lines))
	copy(dup, lines)
	return dup
}
