// Package interceptors provides cross-cutting interceptors for Uni and Multi
// pipelines and a builder that installs them in the process-wide registries.
//
// Built-in interceptors:
//   - LoggingInterceptor: logs subscriptions, terminal signals and cancellation
//   - MetricsInterceptor: counts signals and records time to terminal
//   - TracingInterceptor: opens one span per subscription
//   - TransformInterceptor: rewrites every item on its way to the subscriber
//   - context propagation, through the contextprop package
//
// Example usage:
//
//	uninstall := interceptors.NewInstaller(logger).
//		WithContextPropagation(principal.Service()).
//		WithLogging().
//		WithMetrics(metricsCollector).
//		WithTracing(tracer).
//		Install()
//	defer uninstall()
//
// Interceptors added first get the lowest ordinals, so they wrap first and
// sit closest to the subscriber.
//
// Custom interceptors can be created by implementing the Interceptor
// interface, or by handing an ObserverFactory to NewObservingInterceptor when
// only notifications are needed:
//
//	audit := interceptors.NewObservingInterceptor("audit", func(kind interceptors.Kind) interceptors.Observer {
//		return &auditObserver{kind: kind}
//	})
package interceptors
