package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Ctx retrieves the logger from the context, falling back to the
// global logger when none was stored.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return &l
	}
	return L()
}

// WithClient returns a context whose logger carries the connection id
// and, when already known, the bound username. Session handlers use it
// so every event logged for a connection is attributable.
func WithClient(ctx context.Context, clientID, username string) context.Context {
	c := Ctx(ctx).With().Str(FieldClientID, clientID)
	if username != "" {
		c = c.Str(FieldUsername, username)
	}
	return WithLogger(ctx, c.Logger())
}
