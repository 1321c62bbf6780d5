package logtail

import "github.com/five82/tailf/internal/window"

// Reconcile renumbers a batch read from the stream's current cursor against
// the last line seen in the previous cycle, and returns the adjusted batch
// together with the new last line.
//
// batch is in dir's emission order with indices starting at 1. prev may be
// nil before any line has been seen. When prev was read without its
// terminator and the oldest line of batch is only "\n" or "\r\n", that line
// completes prev: it is appended to prev.Content in place and dropped from
// the batch. If nothing remains, prev is returned as the last line.
func Reconcile(prev *Line, batch []Line, dir window.Direction) ([]Line, *Line) {
	adjusted := make([]Line, len(batch))
	copy(adjusted, batch)

	shift := 0
	if prev != nil {
		shift = prev.Index
		if !prev.Terminated() && len(adjusted) > 0 {
			i := oldest(len(adjusted), dir)
			if isTerminator(adjusted[i].Content) {
				prev.Content += adjusted[i].Content
				adjusted = append(adjusted[:i], adjusted[i+1:]...)
				shift = prev.Index - 1
			}
		}
	}

	adjusted = Renumber(adjusted, shift)
	if len(adjusted) == 0 {
		return adjusted, prev
	}
	last := adjusted[newest(len(adjusted), dir)]
	return adjusted, &last
}

// Renumber shifts every index by offset without stitching.
func Renumber(lines []Line, offset int) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Line{Index: l.Index + offset, Content: l.Content}
	}
	return out
}

func isTerminator(content string) bool {
	return content == "\n" || content == "\r\n"
}

func oldest(n int, dir window.Direction) int {
	if dir == window.BottomToTop {
		return n - 1
	}
	return 0
}

func newest(n int, dir window.Direction) int {
	if dir == window.BottomToTop {
		return 0
	}
	return n - 1
}
