package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the process logger. format is "console" or "json"; an unknown
// level falls back to info.
func New(level, format, component string) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, format, component)
}

func NewWithWriter(out io.Writer, level, format, component string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = out
	if !strings.EqualFold(format, "json") {
		w = zerolog.ConsoleWriter{Out: out}
	}

	return zerolog.New(w).Level(lvl).
		With().Timestamp().Str("component", component).Logger()
}
