package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
)

const (
	highlightFormatter = "terminal16m"
	highlightStyle     = "monokai"
)

// Highlighter applies chroma syntax highlighting chosen by file name.
type Highlighter struct {
	lexer string
	style string
}

// NewHighlighter picks a lexer for filename, falling back to plain text.
func NewHighlighter(filename string) *Highlighter {
	name := "plaintext"
	if lexer := lexers.Match(filename); lexer != nil {
		name = lexer.Config().Name
	}
	return &Highlighter{lexer: name, style: highlightStyle}
}

// Lexer returns the name of the lexer in use.
func (h *Highlighter) Lexer() string {
	return h.lexer
}

// Line highlights one line and keeps its original terminator. On any chroma
// error the content is returned unchanged.
func (h *Highlighter) Line(content string) string {
	body, term := splitTerminator(content)
	if body == "" {
		return content
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, body, h.lexer, highlightFormatter, h.style); err != nil {
		return content
	}
	highlighted := strings.NewReplacer("\n", "", "\r", "").Replace(buf.String())
	return highlighted + term
}

func splitTerminator(content string) (body, term string) {
	switch {
	case strings.HasSuffix(content, "\r\n"):
		return content[:len(content)-2], "\r\n"
	case strings.HasSuffix(content, "\n"):
		return content[:len(content)-1], "\n"
	default:
		return content, ""
	}
}
