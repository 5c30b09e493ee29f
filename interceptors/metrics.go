package interceptors

import (
	"time"
)

// Metric names reported by MetricsInterceptor
const (
	MetricSubscriptions = "reactive_subscriptions_total"
	MetricItems         = "reactive_items_total"
	MetricFailures      = "reactive_failures_total"
	MetricCompletions   = "reactive_completions_total"
	MetricCancellations = "reactive_cancellations_total"
	MetricDuration      = "reactive_subscription_duration_seconds"
)

// MetricsCollector defines the interface for collecting metrics
type MetricsCollector interface {
	IncrementCounter(name string, labels map[string]string)
	RecordDuration(name string, duration time.Duration, labels map[string]string)
}

// MetricsInterceptor collects metrics about subscriptions
type MetricsInterceptor struct {
	*ObservingInterceptor
	collector MetricsCollector
}

// NewMetricsInterceptor creates a new metrics interceptor
func NewMetricsInterceptor(collector MetricsCollector) *MetricsInterceptor {
	i := &MetricsInterceptor{collector: collector}
	i.ObservingInterceptor = NewObservingInterceptor("MetricsInterceptor", i.observe)
	return i
}

func (i *MetricsInterceptor) observe(kind Kind) Observer {
	return &metricsObserver{
		collector: i.collector,
		labels:    map[string]string{"kind": string(kind)},
	}
}

type metricsObserver struct {
	collector MetricsCollector
	labels    map[string]string
	start     time.Time
}

func (o *metricsObserver) Subscribed() {
	o.start = time.Now()
	o.collector.IncrementCounter(MetricSubscriptions, o.labels)
}

func (o *metricsObserver) Item(any) {
	o.collector.IncrementCounter(MetricItems, o.labels)
}

func (o *metricsObserver) Failed(error) {
	o.collector.IncrementCounter(MetricFailures, o.labels)
	o.finish("failure")
}

func (o *metricsObserver) Completed() {
	o.collector.IncrementCounter(MetricCompletions, o.labels)
	o.finish("completion")
}

func (o *metricsObserver) Cancelled() {
	o.collector.IncrementCounter(MetricCancellations, o.labels)
	o.finish("cancellation")
}

func (o *metricsObserver) finish(outcome string) {
	o.collector.RecordDuration(MetricDuration, time.Since(o.start), map[string]string{
		"kind":    o.labels["kind"],
		"outcome": outcome,
	})
}
