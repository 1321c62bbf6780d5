// Package logging configures the global zerolog logger used for diagnostics.
// Diagnostics never share a stream with tailed output.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init points the global logger at w (stderr when nil) in console format and
// sets the global level. Unknown level names fall back to warn.
func Init(level string, w io.Writer) zerolog.Level {
	if w == nil {
		w = os.Stderr
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
	})

	lvl := ParseLevel(level)
	zerolog.SetGlobalLevel(lvl)

	log.Debug().Str("level", lvl.String()).Msg("logger initialized")
	return lvl
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.WarnLevel
	}
}
