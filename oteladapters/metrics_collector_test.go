package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/glimte/mmate-rx/oteladapters"
)

func newTestMeter() (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return reader, oteladapters.NewMetricsCollector(provider.Meter("test"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics), "Failed to collect metrics")
	return resourceMetrics
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	reader, collector := newTestMeter()

	collector.RecordDuration("reactive_subscription_duration_seconds", 250*time.Millisecond, map[string]string{
		"kind":    "uni",
		"outcome": "completion",
	})

	histogram := findHistogramMetric(t, collect(t, reader), "reactive_subscription_duration_seconds")
	require.Len(t, histogram.DataPoints, 1, "Expected exactly one data point")

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.25, dataPoint.Sum, 0.001)

	expectedAttrs := attribute.NewSet(
		attribute.String("kind", "uni"),
		attribute.String("outcome", "completion"),
	)
	assert.True(t, dataPoint.Attributes.Equals(&expectedAttrs), "Attributes should match")
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	reader, collector := newTestMeter()
	labels := map[string]string{"kind": "multi"}

	collector.IncrementCounter("reactive_items_total", labels)
	collector.IncrementCounter("reactive_items_total", labels)
	collector.IncrementCounter("reactive_items_total", labels)

	counter := findCounterMetric(t, collect(t, reader), "reactive_items_total")
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(3), counter.DataPoints[0].Value)
}

func Test_MetricsCollector_SeparatesLabelSets(t *testing.T) {
	reader, collector := newTestMeter()

	collector.IncrementCounter("reactive_subscriptions_total", map[string]string{"kind": "uni"})
	collector.IncrementCounter("reactive_subscriptions_total", map[string]string{"kind": "multi"})
	collector.IncrementCounter("reactive_subscriptions_total", map[string]string{"kind": "multi"})

	counter := findCounterMetric(t, collect(t, reader), "reactive_subscriptions_total")
	require.Len(t, counter.DataPoints, 2)

	values := map[string]int64{}
	for _, dataPoint := range counter.DataPoints {
		kind, _ := dataPoint.Attributes.Value("kind")
		values[kind.AsString()] = dataPoint.Value
	}
	assert.Equal(t, map[string]int64{"uni": 1, "multi": 2}, values)
}

func findHistogramMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) *metricdata.Histogram[float64] {
	t.Helper()
	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, metric := range scopeMetrics.Metrics {
			if metric.Name == name {
				if h, ok := metric.Data.(metricdata.Histogram[float64]); ok {
					return &h
				}
			}
		}
	}
	t.Fatalf("Histogram metric %s not found", name)
	return nil
}

func findCounterMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) *metricdata.Sum[int64] {
	t.Helper()
	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, metric := range scopeMetrics.Metrics {
			if metric.Name == name {
				if c, ok := metric.Data.(metricdata.Sum[int64]); ok {
					return &c
				}
			}
		}
	}
	t.Fatalf("Counter metric %s not found", name)
	return nil
}
