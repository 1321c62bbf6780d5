package window

import "fmt"

// Direction is the order in which a window's lines are emitted.
type Direction int

const (
	TopToBottom Direction = iota
	BottomToTop
)

func (d Direction) String() string {
	switch d {
	case TopToBottom:
		return "top-to-bottom"
	case BottomToTop:
		return "bottom-to-top"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Window selects the lines between two boundaries, emitted in Direction order.
type Window struct {
	Start     Position
	Stop      Position
	Direction Direction
}

// FromCount builds the window for "first n lines" (head) or "last n lines".
func FromCount(n int, head bool) Window {
	if head {
		return Window{Start: Begin(0), Stop: Begin(n), Direction: TopToBottom}
	}
	return Window{Start: End(0), Stop: End(n), Direction: BottomToTop}
}

// All selects every line of a stream in the given direction.
func All(d Direction) Window {
	if d == BottomToTop {
		return Window{Start: End(0), Stop: Begin(0), Direction: BottomToTop}
	}
	return Window{Start: Begin(0), Stop: End(0), Direction: TopToBottom}
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s) %s", w.Start, w.Stop, w.Direction)
}

// Scan is a window normalised for a single forward pass: Start is always the
// earlier bound in stream order and Stop the later one.
type Scan struct {
	Start     Position
	Stop      Position
	Direction Direction
	// Empty reports a window whose bounds coincide or invert.
	Empty bool
}

// Resolve normalises w into forward-scan order. It performs no I/O.
//
// Bottom-to-top windows are written end first, so their bounds are swapped.
// Two Begin bounds that are already ordered stay as they are, which keeps a
// reversed head request anchored at the top of the stream.
func (w Window) Resolve() Scan {
	start, stop := w.Start, w.Stop
	if w.Direction == BottomToTop && !orderedHead(start, stop) {
		start, stop = stop, start
	}
	return Scan{
		Start:     start,
		Stop:      stop,
		Direction: w.Direction,
		Empty:     degenerate(start, stop),
	}
}

func orderedHead(start, stop Position) bool {
	return start.Anchor == FromBegin && stop.Anchor == FromBegin && start.Offset <= stop.Offset
}

// degenerate reports whether start does not come strictly before stop. Mixed
// anchors are never degenerate here; the scan settles them online.
func degenerate(start, stop Position) bool {
	c, ok := Compare(start, stop)
	return ok && c >= 0
}

// Capacity is the most lines a scan ever needs to retain at once. bounded is
// false when every line after the start bound may end up in the window.
//
// Only an End-anchored start bounds retention: the window can never hold more
// than the largest End offset among the two bounds.
func (s Scan) Capacity() (n int, bounded bool) {
	if s.Start.Anchor != FromEnd {
		return 0, false
	}
	n = s.Start.Offset
	if s.Stop.Anchor == FromEnd && s.Stop.Offset > n {
		n = s.Stop.Offset
	}
	return n, true
}
