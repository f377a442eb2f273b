// Package logging configures the process-wide slog default. Analysis
// packages log through slog directly; this just picks the level and format.
package logging

import (
	"log/slog"
	"os"
)

// Init installs the default logger. Verbose enables debug output; otherwise
// only warnings and errors are emitted so generated YAML on stdout stays
// clean.
func Init(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
