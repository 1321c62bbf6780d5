package logtail

import (
	"bufio"
	"errors"
	"io"

	"github.com/five82/tailf/internal/window"
)

// ReaderSize is the buffer size Scan uses when it has to wrap a plain reader.
const ReaderSize = 64 * 1024

// Scan reads r forward once and returns the lines w selects, in w's emission
// order: oldest first for top-to-bottom windows, newest first for
// bottom-to-top ones.
//
// Pass a *bufio.Reader of at least ReaderSize bytes to keep the stream's
// cursor exact across calls; any other reader is wrapped and may lose its
// read-ahead. A read error returns a *ScanError holding the lines retained
// so far and the unfinished line, if any. An empty stream, or a window past the end of the stream, yields
// no lines and no error.
func Scan(r io.Reader, w window.Window) ([]Line, error) {
	lines, _, err := ScanWithLast(r, w)
	return lines, err
}

// ScanWithLast is Scan that also reports the last line read from r, which
// can lie outside the window. last is nil when nothing was read.
func ScanWithLast(r io.Reader, w window.Window) (lines []Line, last *Line, err error) {
	scan := w.Resolve()
	if scan.Empty {
		return nil, nil, nil
	}

	limit := -1
	if n, bounded := scan.Capacity(); bounded {
		limit = n
	}
	retained := newRing(limit)
	br := bufio.NewReaderSize(r, ReaderSize)

	count := 0
	for {
		if scan.Stop.Anchor == window.FromBegin && count >= scan.Stop.Offset {
			break
		}

		content, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			count++
			out := retained.lines()
			if scan.Direction == window.BottomToTop {
				reverse(out)
			}
			return out, last, &ScanError{Lines: out, Line: count, Partial: content, Err: readErr}
		}
		if content == "" {
			break
		}

		count++
		last = &Line{Index: count, Content: content}
		if scan.Start.Anchor == window.FromBegin && count <= scan.Start.Offset {
			if readErr != nil {
				break
			}
			continue
		}
		retained.push(*last)
		if readErr != nil {
			break
		}
	}

	out := retained.lines()
	if scan.Stop.Anchor == window.FromEnd {
		out = out[:max(len(out)-scan.Stop.Offset, 0)]
	}
	if scan.Direction == window.BottomToTop {
		reverse(out)
	}
	return out, last, nil
}
