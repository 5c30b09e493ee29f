package oteladapters

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/glimte/mmate-rx/interceptors"
	"github.com/glimte/mmate-rx/threadcontext"
)

// SpanContextSlotName is the name of slots created by NewSpanContextSlot
const SpanContextSlotName = "otel.span-context"

// NewSpanContextSlot creates an ambient slot holding the current span context
func NewSpanContextSlot() *threadcontext.Slot[trace.SpanContext] {
	return threadcontext.NewSlot(SpanContextSlotName, trace.SpanContext{})
}

// ContextWithSlot returns ctx carrying the span context held by slot, so
// code running inside a pipeline can start child spans.
func ContextWithSlot(ctx context.Context, slot *threadcontext.Slot[trace.SpanContext]) context.Context {
	sc := slot.Get()
	if !sc.IsValid() {
		return ctx
	}
	return trace.ContextWithSpanContext(ctx, sc)
}

// TracerOption configures a Tracer
type TracerOption func(*Tracer)

// WithParentSlot parents every span on the span context held by slot
func WithParentSlot(slot *threadcontext.Slot[trace.SpanContext]) TracerOption {
	return func(t *Tracer) {
		t.parent = slot
	}
}

// Tracer implements interceptors.Tracer using the OpenTelemetry tracing API.
type Tracer struct {
	tracer trace.Tracer
	parent *threadcontext.Slot[trace.SpanContext]
}

// NewTracer creates a new OpenTelemetry tracer adapter.
// The tracer should be created from your OpenTelemetry TracerProvider.
func NewTracer(tracer trace.Tracer, options ...TracerOption) *Tracer {
	t := &Tracer{tracer: tracer}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// StartSpan implements interceptors.Tracer
func (t *Tracer) StartSpan(operationName string) interceptors.Span {
	ctx := context.Background()
	if t.parent != nil {
		ctx = ContextWithSlot(ctx, t.parent)
	}
	_, span := t.tracer.Start(ctx, operationName)
	return &Span{span: span}
}

// Span implements interceptors.Span by wrapping an OpenTelemetry span.
type Span struct {
	span   trace.Span
	failed atomic.Bool
}

// SetTag adds an attribute to the span
func (s *Span) SetTag(key string, value interface{}) {
	s.span.SetAttributes(toAttribute(key, value))
}

// SetError records err and marks the span as failed
func (s *Span) SetError(err error) {
	s.failed.Store(true)
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// Finish ends the span, with status Ok unless an error was set
func (s *Span) Finish() {
	if !s.failed.Load() {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

// SpanContext returns the span context of the wrapped span
func (s *Span) SpanContext() trace.SpanContext {
	return s.span.SpanContext()
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}

// Ensure Tracer implements interceptors.Tracer
var _ interceptors.Tracer = (*Tracer)(nil)

// Ensure Span implements interceptors.Span
var _ interceptors.Span = (*Span)(nil)
