// Package telemetry wraps the orchestrator's selection runs, and any step
// run through RunStep, in spans.
// With a no-op tracer (the default), every call here costs a single
// interface dispatch; callers that want real traces supply a configured
// tracer.Tracer from go.opentelemetry.io/otel/sdk.
package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one selection run (full-probe or cached) as a root span;
// each RunStep call adds a child span under it.
type Operation struct {
	ctx    context.Context
	tracer trace.Tracer
	span   trace.Span
}

// Start begins an Operation span named name under tracer. tracer may be
// nil, in which case RunStep/End degrade to plain function calls.
func Start(ctx context.Context, tracer trace.Tracer, name string) *Operation {
	if tracer == nil {
		return &Operation{ctx: ctx}
	}
	spanCtx, span := tracer.Start(ctx, name)
	return &Operation{ctx: spanCtx, tracer: tracer, span: span}
}

// Context returns the span-carrying context, or context.Background() if o is nil.
func (o *Operation) Context() context.Context {
	if o == nil || o.ctx == nil {
		return context.Background()
	}
	return o.ctx
}

// RunStep runs fn under a child span named stepID, recording any error on
// the span. With no tracer configured, it calls fn directly.
func (o *Operation) RunStep(ctx context.Context, stepID string, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	if o == nil || o.tracer == nil {
		return fn(ctx)
	}
	if ctx == nil {
		ctx = o.ctx
	}

	stepCtx, span := o.tracer.Start(ctx, stepID)
	defer span.End()

	err := fn(stepCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
	}
	return err
}

// End closes the root span, recording err if non-nil.
func (o *Operation) End(err error) {
	if o == nil || o.span == nil {
		return
	}
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
	}
	o.span.End()
}
