package usecase

import (
	"context"

	"trainer-booking/internal/apperr"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("trainer-booking/internal/usecase")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan marks infrastructure failures as span errors. Business outcomes
// such as a taken slot are recorded as an attribute only.
func endSpan(span trace.Span, err error) {
	switch {
	case err == nil:
	case apperr.IsBusiness(err):
		span.SetAttributes(attribute.String("booking.outcome", err.Error()))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
