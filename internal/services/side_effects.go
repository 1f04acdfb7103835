package services

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/metrics"
	"github.com/getsentry/sentry-go"
)

// runSideEffect executes a step that follows an already committed mutation.
// Its failure is logged, reported to Sentry and counted, and never returned:
// the caller's result stands regardless.
func runSideEffect(ctx context.Context, op string, fn func(ctx context.Context) error, attrs ...any) {
	err := fn(ctx)
	if err == nil {
		return
	}

	metrics.SideEffectFailures.WithLabelValues(op).Inc()
	slog.ErrorContext(ctx, "notification side effect failed",
		append([]any{"operation", op, "error", err.Error()}, attrs...)...)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", op)
		hub.CaptureException(err)
	})
}
