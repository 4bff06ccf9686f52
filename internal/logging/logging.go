package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger. It is replaced by Init at start-up.
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// New builds a JSON logger writing to w at the given level. Unknown levels fall back to info.
func New(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "bizmanage").Logger()
}

// Init replaces Logger with a logger for level on stdout.
func Init(level string) zerolog.Logger {
	Logger = New(level, os.Stdout)
	return Logger
}
