package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// With returns ctx carrying a logger enriched with args.
func With(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithOrganization tags the contextual logger with an organization id.
func WithOrganization(ctx context.Context, organizationID string) context.Context {
	return With(ctx, "organization_id", organizationID)
}

// WithCaller tags the contextual logger with the authenticated caller.
func WithCaller(ctx context.Context, userID string) context.Context {
	return With(ctx, "caller_id", userID)
}
