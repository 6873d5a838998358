// Package logging configures the process-wide zerolog logger, matching
// cmd/cryptorun/main.go's console-writer setup: human-readable output to
// stderr on an interactive terminal, structured JSON otherwise.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Options configures Setup.
type Options struct {
	// Level is parsed with zerolog.ParseLevel; invalid/empty defaults to info.
	Level string
	// Pretty forces (or suppresses) the console writer regardless of TTY
	// detection. nil lets Setup auto-detect from os.Stderr.
	Pretty *bool
}

// Setup sets zerolog's global level, builds this package's logger (the one
// Get returns) and returns it. It does not assign zerolog/log.Logger; callers
// that use that package-level logger assign it from the result. Calling Setup
// more than once rebuilds the logger each time.
func Setup(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	pretty := term.IsTerminal(int(os.Stderr.Fd()))
	if opts.Pretty != nil {
		pretty = *opts.Pretty
	}

	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(w).With().Timestamp().Caller().Logger()
	zerologGlobal = logger
	return logger
}

var zerologGlobal = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Get returns the logger configured by the last call to Setup, or a bare
// stderr JSON logger if Setup was never called (e.g. in unit tests).
func Get() zerolog.Logger {
	return zerologGlobal
}
