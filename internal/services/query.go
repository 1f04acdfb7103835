package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/auth"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/metrics"
)

// Ordering sorts query results by creation time.
type Ordering string

const (
	OrderCreatedAtAsc  Ordering = "createdAt_asc"
	OrderCreatedAtDesc Ordering = "createdAt_desc"
)

func ParseOrdering(s string) (Ordering, error) {
	switch Ordering(s) {
	case "":
		return OrderCreatedAtDesc, nil
	case OrderCreatedAtAsc, OrderCreatedAtDesc:
		return Ordering(s), nil
	}
	return "", fmt.Errorf("%w: unknown ordering %q", ErrValidation, s)
}

// column returns the ORDER BY expression for table; unknown values sort newest first.
func (o Ordering) column(table string) string {
	if o == OrderCreatedAtAsc {
		return table + ".created_at ASC"
	}
	return table + ".created_at DESC"
}

// ParseOptionalBool parses a tri-state query parameter: empty means unset.
func ParseOptionalBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a boolean", ErrValidation, s)
	}
	return &b, nil
}

type NotificationFilter struct {
	Read    *bool
	OrderBy Ordering
}

type ReportFilter struct {
	OrderBy  Ordering
	Reviewed *bool
	// Closed=true selects closed reports and ignores Reviewed.
	// Closed=false selects open reports and still honours Reviewed.
	Closed *bool
	Offset int
	First  int
}

func requireViewer(ctx context.Context) (auth.Viewer, error) {
	v, ok := auth.ViewerFrom(ctx)
	if !ok {
		return auth.Viewer{}, ErrUnauthorized
	}
	return v, nil
}

var classified = []error{
	ErrValidation,
	ErrUnauthorized,
	ErrForbidden,
	ErrNotFound,
	ErrStorage,
	ErrAlreadyBlocked,
	ErrSelfBlock,
}

// classify keeps domain errors as they are and marks everything else as a
// storage failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range classified {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// fail logs a failed operation with its identifiers and returns the classified error.
func fail(ctx context.Context, op string, err error, attrs ...any) error {
	err = classify(err)
	args := append([]any{"operation", op, "error", err.Error()}, attrs...)
	if errors.Is(err, ErrStorage) {
		slog.ErrorContext(ctx, "operation failed", args...)
	} else {
		slog.WarnContext(ctx, "operation rejected", args...)
	}
	return err
}

func observe(op string, start time.Time) {
	metrics.TxDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
