// Package logging defines the structured-logging interface the rest of the
// server depends on, keeping callers decoupled from the concrete backend.
package logging

import "context"

// Logger takes a message plus alternating key-value pairs:
//
//	log.Info(ctx, "employee created", "id", id)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given pairs on every record.
	With(args ...any) Logger
}
