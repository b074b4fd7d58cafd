package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// logSpanProcessor feeds each completed span to slog, the CLI's equivalent
// of the teacher's checklist/line observer: rather than a terminal
// progress UI, debug runs get one log line per probe/selection stage.
type logSpanProcessor struct{}

func (logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (logSpanProcessor) OnEnd(span sdktrace.ReadOnlySpan) {
	slog.Debug("span", "name", span.Name(), "duration", span.EndTime().Sub(span.StartTime()))
}

func (logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (logSpanProcessor) ForceFlush(context.Context) error { return nil }

// newTracer builds a tracer backed by a TracerProvider with no batching
// exporter attached: spans are only ever consumed by logSpanProcessor,
// never shipped off-process, matching this CLI's "operator tool, not a
// long-lived service" scope.
func newTracer(debug bool) (trace.Tracer, func()) {
	if !debug {
		return otel.Tracer("autoselect"), func() {}
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(logSpanProcessor{}))
	return provider.Tracer("autoselect"), func() { _ = provider.Shutdown(context.Background()) }
}
