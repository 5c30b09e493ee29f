package interceptors

import (
	"fmt"
	"sync/atomic"
)

// Tracer defines the interface for distributed tracing
type Tracer interface {
	StartSpan(operationName string) Span
}

// Span represents a tracing span
type Span interface {
	SetTag(key string, value interface{})
	SetError(err error)
	Finish()
}

// TracingInterceptor opens one span per subscription and finishes it on the
// terminal signal or on cancellation.
type TracingInterceptor struct {
	*ObservingInterceptor
	tracer Tracer
}

// NewTracingInterceptor creates a new tracing interceptor
func NewTracingInterceptor(tracer Tracer) *TracingInterceptor {
	i := &TracingInterceptor{tracer: tracer}
	i.ObservingInterceptor = NewObservingInterceptor("TracingInterceptor", i.observe)
	return i
}

func (i *TracingInterceptor) observe(kind Kind) Observer {
	return &tracingObserver{tracer: i.tracer, kind: kind}
}

type tracingObserver struct {
	tracer Tracer
	kind   Kind
	span   Span
	items  atomic.Int64
}

func (o *tracingObserver) Subscribed() {
	o.span = o.tracer.StartSpan(fmt.Sprintf("%s.subscribe", o.kind))
	o.span.SetTag("reactive.kind", string(o.kind))
}

func (o *tracingObserver) Item(any) {
	o.items.Add(1)
}

func (o *tracingObserver) Failed(err error) {
	o.span.SetError(err)
	o.finish()
}

func (o *tracingObserver) Completed() {
	o.finish()
}

func (o *tracingObserver) Cancelled() {
	o.span.SetTag("reactive.cancelled", true)
	o.finish()
}

func (o *tracingObserver) finish() {
	o.span.SetTag("reactive.items", o.items.Load())
	o.span.Finish()
}
