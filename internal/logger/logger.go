// Package logger builds the application's structured logger.
//
// It uses zerolog: human-friendly console output in development,
// JSON everywhere else so log processors can ingest it.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New constructs the application logger for the given environment.
//
// "development" gets a console writer on stderr; any other environment
// writes JSON. Every entry carries a timestamp and the environment name.
func New(env string) zerolog.Logger {
	var l zerolog.Logger
	if env == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		l = zerolog.New(os.Stderr)
	}

	return l.With().
		Timestamp().
		Str("env", env).
		Logger()
}
