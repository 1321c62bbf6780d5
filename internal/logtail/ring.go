package logtail

// ring retains the most recent lines of a scan. A negative limit keeps
// everything; otherwise the oldest line is overwritten once limit is reached.
type ring struct {
	limit int
	items []Line
	next  int
}

func newRing(limit int) *ring {
	r := &ring{limit: limit}
	if limit > 0 {
		r.items = make([]Line, 0, min(limit, 1024))
	}
	return r
}

func (r *ring) push(l Line) {
	switch {
	case r.limit == 0:
		return
	case r.limit < 0 || len(r.items) < r.limit:
		r.items = append(r.items, l)
	default:
		r.items[r.next] = l
		r.next = (r.next + 1) % r.limit
	}
}

// lines returns the retained lines oldest first.
func (r *ring) lines() []Line {
	out := make([]Line, 0, len(r.items))
	out = append(out, r.items[r.next:]...)
	out = append(out, r.items[:r.next]...)
	return out
}
