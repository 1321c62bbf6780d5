// Package render formats scanned lines for a terminal.
//
// Every line is written as "index:\tcontent" and always ends in a newline.
// Lines come out in stream order; the reverse flag flips that order
// regardless of the direction used to select them.
package render

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tailf/internal/logtail"
	"github.com/five82/tailf/internal/window"
)

// Order returns lines in presentation order: oldest first, or newest first
// when reverse is set.
func Order(lines []logtail.Line, dir window.Direction, reverse bool) []logtail.Line {
	out := logtail.Chronological(lines, dir)
	if reverse {
		out = logtail.Chronological(out, window.BottomToTop)
	}
	return out
}

// Render writes lines to w without styling.
func Render(w io.Writer, lines []logtail.Line, dir window.Direction, reverse bool) error {
	return NewPrinter(w, reverse).Emit(lines, dir)
}

// Option configures a Printer.
type Option func(*Printer)

// WithIndexStyle styles the "index:" prefix.
func WithIndexStyle(style lipgloss.Style) Option {
	return func(p *Printer) {
		p.indexStyle = &style
	}
}

// WithHighlighter passes line content through h before it is written.
func WithHighlighter(h *Highlighter) Option {
	return func(p *Printer) {
		p.highlight = h
	}
}

// Printer writes batches to a terminal. It is the sink of the follow loop
// when no viewer is running.
type Printer struct {
	w          io.Writer
	reverse    bool
	indexStyle *lipgloss.Style
	highlight  *Highlighter
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, reverse bool, opts ...Option) *Printer {
	p := &Printer{w: w, reverse: reverse}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit writes one batch given in dir's emission order.
func (p *Printer) Emit(lines []logtail.Line, dir window.Direction) error {
	if len(lines) == 0 {
		return nil
	}
	bw := bufio.NewWriter(p.w)
	for _, l := range Order(lines, dir, p.reverse) {
		if _, err := bw.WriteString(p.format(l)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (p *Printer) format(l logtail.Line) string {
	prefix := strconv.Itoa(l.Index) + ":"
	if p.indexStyle != nil {
		prefix = p.indexStyle.Render(prefix)
	}

	content := l.Content
	if p.highlight != nil {
		content = p.highlight.Line(content)
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return prefix + "\t" + content
}
