package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "pagesmith"

// StartTaskSpan starts a span for one pipeline task.
func StartTaskSpan(ctx context.Context, taskID, kind string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "task",
		trace.WithAttributes(
			attribute.String("task.id", taskID),
			attribute.String("task.kind", kind),
		),
	)
}

// StartStepSpan starts a span for one pipeline step within a task.
func StartStepSpan(ctx context.Context, step string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, step)
}
