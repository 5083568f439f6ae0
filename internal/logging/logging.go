// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup sends console-formatted logs to stderr at level. Unknown levels fall
// back to info.
func Setup(level string, noColor bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen, NoColor: noColor}
	configure(output, level)
}

// SetupFile sends JSON logs to path, for when the terminal belongs to the
// dashboard. The returned closer flushes and closes the file.
func SetupFile(path, level string) (io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	configure(f, level)
	return f, nil
}

// Discard silences the global logger.
func Discard() {
	log.Logger = zerolog.New(io.Discard)
}

// SetLevel changes the global level. Loggers copied from log.Logger before
// the call follow it too. Unknown levels fall back to info.
func SetLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return lvl
}

func configure(w io.Writer, level string) {
	SetLevel(level)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
