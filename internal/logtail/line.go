package logtail

import (
	"fmt"
	"strings"

	"github.com/five82/tailf/internal/window"
)

// Line is one line of a stream. Index is its 1-based ordinal as scanned and
// Content keeps the line terminator when the stream had one.
type Line struct {
	Index   int
	Content string
}

// Terminated reports whether the line ends with "\n" (which covers "\r\n").
func (l Line) Terminated() bool {
	return strings.HasSuffix(l.Content, "\n")
}

// ScanError is a read failure in the middle of a scan. Lines holds every line
// retained before the failure, in the scan's emission order, and Line is the
// ordinal of the read that failed. Partial holds the bytes of that line read
// before the failure; they are gone from the stream and belong at the front
// of the next line read from it.
type ScanError struct {
	Lines   []Line
	Line    int
	Partial string
	Err     error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("read line %d: %v", e.Line, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Chronological returns lines in stream order. Bottom-to-top batches arrive
// newest first and are reversed into a new slice; top-to-bottom batches are
// returned as a copy.
func Chronological(lines []Line, dir window.Direction) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	if dir == window.BottomToTop {
		reverse(out)
	}
	return out
}

func reverse(lines []Line) {
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
}
