// Package logging constructs the zerolog logger shared by the engine's
// components and carries it through contexts.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a structured logger writing to w at the given level. A nil w
// means stderr.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Console builds a human-readable logger for the CLI.
func Console(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything. Used as the default for
// library embedders that did not supply one.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithContext embeds the logger in ctx.
func WithContext(ctx context.Context, log zerolog.Logger) context.Context {
	return log.WithContext(ctx)
}

// FromContext extracts the logger from ctx, falling back to a disabled
// logger when none was embedded.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
