// Package logging configures the process-wide diagnostic logger.
//
// Diagnostics go to stderr so they never mix with the progress lines the CLI
// prints on stdout.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldChunk     = "chunk"
)

// Config controls logger construction.
type Config struct {
	Level  string
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
	// NoColor forces plain console output; colour is otherwise enabled only
	// when Output is a terminal.
	NoColor bool
}

var (
	mu   sync.RWMutex
	base = zerolog.Nop()
)

// Setup builds the base logger from cfg and installs it for Component.
func Setup(cfg Config) zerolog.Logger {
	logger := New(cfg)
	mu.Lock()
	base = logger
	mu.Unlock()
	return logger
}

// New builds a logger without installing it.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.EqualFold(cfg.Format, FormatJSON) {
		logger = zerolog.New(out)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    cfg.NoColor || !isTerminal(out),
			TimeFormat: time.TimeOnly,
		})
	}

	return logger.Level(level).With().Timestamp().Logger()
}

// Component returns a sub-logger of the installed base tagged with name.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str(FieldComponent, name).Logger()
}

// Reset restores the no-op base logger.
func Reset() {
	mu.Lock()
	base = zerolog.Nop()
	mu.Unlock()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
