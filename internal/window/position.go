package window

import "fmt"

// Anchor says which end of the stream a Position counts from.
type Anchor int

const (
	// FromBegin counts lines forward from the start of the stream.
	FromBegin Anchor = iota
	// FromEnd counts lines backward from the end of the stream.
	FromEnd
)

func (a Anchor) String() string {
	switch a {
	case FromBegin:
		return "begin"
	case FromEnd:
		return "end"
	default:
		return fmt.Sprintf("anchor(%d)", int(a))
	}
}

// Position is a line boundary anchored to one end of a stream.
//
// Begin(0) is the boundary before the first line and End(0) the boundary
// after the last one. Begin(3) sits between lines 3 and 4; End(3) sits
// before the last three lines.
type Position struct {
	Anchor Anchor
	Offset int
}

// Begin returns a boundary offset lines after the start of the stream.
func Begin(offset int) Position {
	return Position{Anchor: FromBegin, Offset: max(offset, 0)}
}

// End returns a boundary offset lines before the end of the stream.
func End(offset int) Position {
	return Position{Anchor: FromEnd, Offset: max(offset, 0)}
}

func (p Position) String() string {
	if p.Anchor == FromEnd {
		return fmt.Sprintf("end-%d", p.Offset)
	}
	return fmt.Sprintf("begin+%d", p.Offset)
}

// Compare orders two positions in stream order. It returns -1 when p comes
// before q, 0 when they coincide and +1 when p comes after q. The boolean is
// false when the anchors differ: such pairs cannot be ordered without knowing
// the stream length.
func Compare(p, q Position) (int, bool) {
	if p.Anchor != q.Anchor {
		return 0, false
	}
	a, b := p.Offset, q.Offset
	if p.Anchor == FromEnd {
		a, b = b, a
	}
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	default:
		return 0, true
	}
}
