// Package oteladapters connects the interceptors package to OpenTelemetry.
//
// MetricsCollector maps interceptors.MetricsCollector onto a metric.Meter:
//   - IncrementCounter -> Int64Counter
//   - RecordDuration -> Float64Histogram in seconds
//
// Tracer maps interceptors.Tracer onto a trace.Tracer. Spans are parented
// from a span context slot, which is an ambient context cell that the
// contextprop interceptors can carry across pipelines:
//
//	spans := oteladapters.NewSpanContextSlot()
//	uninstall := interceptors.NewInstaller(logger).
//		WithContextPropagation(spans.Service()).
//		WithTracing(oteladapters.NewTracer(provider.Tracer("reactive"), oteladapters.WithParentSlot(spans))).
//		Install()
package oteladapters
