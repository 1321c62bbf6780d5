package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tailf/internal/render"
	"github.com/five82/tailf/internal/window"
)

const tabWidth = 4

// layout sizes the viewport to the space left by the header and footer.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.help.Width = m.width
	chrome := 1 + lipgloss.Height(m.renderFooter())
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-chrome, 1)
}

// refreshContent rebuilds the viewport text from the current snapshot.
func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()
	lines := render.Order(m.snapshot.Lines, window.TopToBottom, m.reverse)

	width := 1
	if m.snapshot.HasLast {
		width = len(strconv.Itoa(m.snapshot.Last.Index))
	}

	rows := make([]string, len(lines))
	for i, l := range lines {
		content := l.Content
		if m.highlight != nil {
			content = m.highlight.Line(content)
		}
		content = strings.TrimRight(content, "\r\n")
		content = strings.ReplaceAll(content, "\t", strings.Repeat(" ", tabWidth))
		rows[i] = styles.Index.Render(fmt.Sprintf("%*d:", width, l.Index)) + " " + content
	}
	m.viewport.SetContent(strings.Join(rows, "\n"))
	if m.follow {
		m.gotoNewest()
	}
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.Surface)
	sep := bg.spaces(2)

	parts := []string{
		bg.render("tailf", styles.Logo),
		bg.render(truncateMiddle(m.path, max(m.width/2, 16)), styles.Text),
	}

	if m.snapshot.HasLast {
		parts = append(parts, bg.render(fmt.Sprintf("line %d", m.snapshot.Last.Index), styles.MutedText))
	} else {
		parts = append(parts, bg.render("waiting for lines", styles.FaintText))
	}

	if m.follow {
		parts = append(parts, bg.render("FOLLOW", styles.SuccessText))
	} else {
		parts = append(parts, bg.render("PAUSED", styles.WarningText))
	}
	if m.reverse {
		parts = append(parts, bg.render("newest first", styles.AccentText))
	}

	if err := m.snapshot.LastError; err != nil {
		msg := "read error: " + err.Error()
		if m.snapshot.IsFailing() {
			msg = fmt.Sprintf("read error (%d in a row): %v", m.snapshot.ConsecutiveFailures, err)
		}
		parts = append(parts, bg.render(msg, styles.DangerText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(parts, sep))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).Render(m.help.View(m.keys))
}

// bgStyle renders segments on one background colour, including the spaces
// between words, so the status bar has no gaps.
type bgStyle struct {
	bg lipgloss.Color
}

func newBgStyle(color string) bgStyle {
	return bgStyle{bg: lipgloss.Color(color)}
}

func (b bgStyle) render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	return style.Background(b.bg).Render(text)
}

func (b bgStyle) spaces(n int) string {
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// truncateMiddle shortens value to limit runes, keeping both ends.
func truncateMiddle(value string, limit int) string {
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}
