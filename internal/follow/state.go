package follow

import (
	"bufio"
	"fmt"
	"io"

	"github.com/five82/tailf/internal/logtail"
	"github.com/five82/tailf/internal/offset"
	"github.com/five82/tailf/internal/window"
)

// State is everything the follow loop carries between cycles: the open
// stream, its buffered reader and the last line seen. The stream is owned
// by State and must not be read by anything else.
type State struct {
	// Last is the newest line seen so far, nil before the first line.
	Last *logtail.Line

	dir    window.Direction
	file   io.ReadSeekCloser
	reader *bufio.Reader
	// pending is the start of a line whose read failed; it is already
	// off the stream.
	pending string
}

// NewState takes ownership of file. Batches are scanned in dir order.
func NewState(file io.ReadSeekCloser, dir window.Direction) *State {
	return &State{
		dir:    dir,
		file:   file,
		reader: bufio.NewReaderSize(file, logtail.ReaderSize),
	}
}

// Reader returns the buffered reader every scan of this stream must use.
func (s *State) Reader() *bufio.Reader {
	return s.reader
}

// Direction returns the scan direction of follow batches.
func (s *State) Direction() window.Direction {
	return s.dir
}

// LastIndex returns the index of the last line seen, or 0.
func (s *State) LastIndex() int {
	if s.Last == nil {
		return 0
	}
	return s.Last.Index
}

// Offset returns the byte position of the next unread line.
func (s *State) Offset() (int64, error) {
	pos, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("stream position: %w", err)
	}
	return pos - int64(s.reader.Buffered()), nil
}

// Seek moves the stream to off and drops any read-ahead.
func (s *State) Seek(off int64) error {
	if _, err := s.file.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", off, err)
	}
	s.reader.Reset(s.file)
	return nil
}

// Carry keeps the unfinished line of a failed read so the next batch can
// complete it.
func (s *State) Carry(partial string) {
	s.pending += partial
}

// Apply reconciles a freshly scanned batch against Last, records the new
// last line and returns the renumbered batch. Carried bytes are put in front
// of the batch's oldest line.
func (s *State) Apply(batch []logtail.Line) []logtail.Line {
	if s.pending != "" && len(batch) > 0 {
		batch = append([]logtail.Line(nil), batch...)
		i := 0
		if s.dir == window.BottomToTop {
			i = len(batch) - 1
		}
		batch[i].Content = s.pending + batch[i].Content
		s.pending = ""
	}
	adjusted, last := logtail.Reconcile(s.Last, batch, s.dir)
	s.Last = last
	return adjusted
}

// Cursor captures the state in resumable form. The offset points at the
// start of any carried line so a resumed run reads it again.
func (s *State) Cursor() (offset.Cursor, error) {
	off, err := s.Offset()
	if err != nil {
		return offset.Cursor{}, err
	}
	c := offset.Cursor{Offset: off - int64(len(s.pending))}
	if s.Last != nil {
		c.LastIndex = s.Last.Index
		c.LastContent = s.Last.Content
	}
	return c, nil
}

// Restore seeks to a saved cursor and takes its last line. A cursor with no
// last line leaves Last nil.
func (s *State) Restore(c offset.Cursor) error {
	if err := s.Seek(c.Offset); err != nil {
		return err
	}
	s.Last = nil
	s.pending = ""
	if c.LastIndex > 0 {
		s.Last = &logtail.Line{Index: c.LastIndex, Content: c.LastContent}
	}
	return nil
}

// Close closes the stream.
func (s *State) Close() error {
	return s.file.Close()
}
