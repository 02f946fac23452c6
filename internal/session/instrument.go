package session

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const spanPrefix = "lineforge."

// instrument wraps fn with a span, a RED metric, and a structured log line,
// per the one-span-one-metric-one-log-line-per-operation contract every
// session operation follows. blockID is logged/tagged when non-empty; some
// operations (load_file) have none yet.
func (s *Session) instrument(ctx context.Context, op, blockID string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()

	if s.metrics != nil {
		done := s.metrics.TrackInflight(ctx, op)
		defer done()
	}

	if s.providers.Tracer != nil {
		var span trace.Span

		ctx, span = s.providers.Tracer.Start(ctx, spanPrefix+op, trace.WithAttributes(
			attribute.String("op", op),
			attribute.String("block_id", blockID),
		))
		defer span.End()

		err := fn(ctx)
		s.finish(ctx, op, blockID, start, err)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return err
	}

	err := fn(ctx)
	s.finish(ctx, op, blockID, start, err)

	return err
}

// instrumentValue is instrument's counterpart for operations that return a
// value alongside the error (get_text, create_child, ...).
func instrumentValue[T any](s *Session, ctx context.Context, op, blockID string, fn func(context.Context) (T, error)) (T, error) {
	var result T

	err := s.instrument(ctx, op, blockID, func(ctx context.Context) error {
		var innerErr error

		result, innerErr = fn(ctx)

		return innerErr
	})

	return result, err
}

// finish records the RED metric and the one-line log entry common to both
// the traced and untraced paths of instrument.
func (s *Session) finish(ctx context.Context, op, blockID string, start time.Time, err error) {
	duration := time.Since(start)

	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}

		s.metrics.RecordRequest(ctx, op, status, duration)
	}

	if s.providers.Logger == nil {
		return
	}

	attrs := []any{"op", op, "block_id", blockID, "duration_ms", duration.Milliseconds()}

	if err != nil {
		s.providers.Logger.ErrorContext(ctx, "session.op", append(attrs, "err", err)...)

		return
	}

	s.providers.Logger.InfoContext(ctx, "session.op", attrs...)
}
