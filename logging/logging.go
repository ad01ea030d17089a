// Package logging builds the application's zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a timestamped JSON logger writing to w at the named level.
// Unknown levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// GooseLogger adapts a zerolog.Logger to goose's Printf/Fatalf logger.
type GooseLogger struct {
	l zerolog.Logger
}

func NewGooseLogger(l zerolog.Logger) *GooseLogger {
	return &GooseLogger{l: l.With().Str("component", "migrate").Logger()}
}

func (g *GooseLogger) Printf(format string, v ...interface{}) {
	g.l.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *GooseLogger) Fatalf(format string, v ...interface{}) {
	g.l.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
