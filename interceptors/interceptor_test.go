package interceptors

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/glimte/mmate-rx/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock interfaces for testing
type mockMetricsCollector struct {
	mock.Mock
}

func (m *mockMetricsCollector) IncrementCounter(name string, labels map[string]string) {
	m.Called(name, labels)
}

func (m *mockMetricsCollector) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	m.Called(name, duration, labels)
}

type mockTracer struct {
	mock.Mock
}

func (m *mockTracer) StartSpan(operationName string) Span {
	args := m.Called(operationName)
	return args.Get(0).(Span)
}

type mockSpan struct {
	mock.Mock
}

func (m *mockSpan) SetTag(key string, value interface{}) {
	m.Called(key, value)
}

func (m *mockSpan) SetError(err error) {
	m.Called(err)
}

func (m *mockSpan) Finish() {
	m.Called()
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) Subscribed() { o.events = append(o.events, "subscribed") }
func (o *recordingObserver) Item(any) { o.events = append(o.events, "item") }
func (o *recordingObserver) Failed(error) { o.events = append(o.events, "failed") }
func (o *recordingObserver) Completed() { o.events = append(o.events, "completed") }
func (o *recordingObserver) Cancelled() { o.events = append(o.events, "cancelled") }

func clearRegistries(t *testing.T) {
	t.Helper()
	reactive.ClearInterceptors()
	t.Cleanup(reactive.ClearInterceptors)
}

func register(interceptor Interceptor) {
	reactive.RegisterUniInterceptor(interceptor.UniInterceptor(reactive.DefaultOrdinal))
	reactive.RegisterMultiInterceptor(interceptor.MultiInterceptor(reactive.DefaultOrdinal))
}

func TestObservingInterceptor(t *testing.T) {
	t.Run("Uni item is reported as item then completion", func(t *testing.T) {
		clearRegistries(t)
		observer := &recordingObserver{}
		register(NewObservingInterceptor("observer", func(kind Kind) Observer {
			assert.Equal(t, KindUni, kind)
			return observer
		}))

		item, err := reactive.Await(context.Background(), reactive.UniFromItem(7))

		require.NoError(t, err)
		assert.Equal(t, 7, item)
		assert.Equal(t, []string{"subscribed", "item", "completed"}, observer.events)
	})

	t.Run("Multi reports every item and the completion", func(t *testing.T) {
		clearRegistries(t)
		observer := &recordingObserver{}
		register(NewObservingInterceptor("observer", func(Kind) Observer { return observer }))

		items, err := reactive.Collect(context.Background(), reactive.MultiFromItems(1, 2))

		require.NoError(t, err)
		assert.Equal(t, []any{1, 2}, items)
		assert.Equal(t, []string{"subscribed", "item", "item", "completed"}, observer.events)
	})

	t.Run("Cancel after completion is not reported", func(t *testing.T) {
		clearRegistries(t)
		observer := &recordingObserver{}
		register(NewObservingInterceptor("observer", func(Kind) Observer { return observer }))

		var subscription reactive.UniSubscription
		reactive.SubscribeUni(reactive.UniFromItem("done"), reactive.UniSubscriberFuncs{
			OnSubscribeFunc: func(s reactive.UniSubscription) { subscription = s },
		})
		require.NotNil(t, subscription)
		subscription.Cancel()
		subscription.Cancel()

		assert.Equal(t, []string{"subscribed", "item", "completed"}, observer.events)
	})

	t.Run("Cancel is reported once", func(t *testing.T) {
		clearRegistries(t)
		observer := &recordingObserver{}
		register(NewObservingInterceptor("observer", func(Kind) Observer { return observer }))

		var subscription reactive.Subscription
		reactive.SubscribeMulti(reactive.MultiFromItems(1, 2, 3), reactive.MultiSubscriberFuncs{
			OnSubscribeFunc: func(s reactive.Subscription) {
				subscription = s
				s.Request(1)
			},
			OnNextFunc: func(any) {
				subscription.Cancel()
				subscription.Cancel()
			},
		})

		assert.Equal(t, []string{"subscribed", "item", "cancelled"}, observer.events)
	})
}

func TestLoggingInterceptor(t *testing.T) {
	t.Run("NewLoggingInterceptor with nil logger uses default", func(t *testing.T) {
		interceptor := NewLoggingInterceptor(nil)
		assert.NotNil(t, interceptor.logger)
		assert.Equal(t, "LoggingInterceptor", interceptor.Name())
	})

	t.Run("Logs subscription lifecycle", func(t *testing.T) {
		clearRegistries(t)
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		register(NewLoggingInterceptor(logger))

		_, err := reactive.Collect(context.Background(), reactive.MultiFromItems("a", "b"))
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "subscription started")
		assert.Contains(t, output, "item received")
		assert.Contains(t, output, "subscription completed")
		assert.Contains(t, output, `"subscriptionId"`)
		assert.Contains(t, output, `"kind":"multi"`)
		assert.Contains(t, output, `"items":2`)
	})

	t.Run("Logs failures at error level", func(t *testing.T) {
		clearRegistries(t)
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		register(NewLoggingInterceptor(logger))

		_, err := reactive.Await(context.Background(), reactive.UniFromFailure(errors.New("boom")))
		require.EqualError(t, err, "boom")

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, "subscription failed")
		assert.Contains(t, output, `"error":"boom"`)
		assert.NotContains(t, output, "item received")
	})
}

func TestMetricsInterceptor(t *testing.T) {
	t.Run("Successful Uni", func(t *testing.T) {
		clearRegistries(t)
		collector := &mockMetricsCollector{}
		labels := map[string]string{"kind": "uni"}

		collector.On("IncrementCounter", MetricSubscriptions, labels).Once()
		collector.On("IncrementCounter", MetricItems, labels).Once()
		collector.On("IncrementCounter", MetricCompletions, labels).Once()
		collector.On("RecordDuration", MetricDuration, mock.AnythingOfType("time.Duration"),
			map[string]string{"kind": "uni", "outcome": "completion"}).Once()

		register(NewMetricsInterceptor(collector))
		_, err := reactive.Await(context.Background(), reactive.UniFromItem(1))

		require.NoError(t, err)
		collector.AssertExpectations(t)
	})

	t.Run("Failed Multi", func(t *testing.T) {
		clearRegistries(t)
		collector := &mockMetricsCollector{}
		labels := map[string]string{"kind": "multi"}

		collector.On("IncrementCounter", MetricSubscriptions, labels).Once()
		collector.On("IncrementCounter", MetricFailures, labels).Once()
		collector.On("RecordDuration", MetricDuration, mock.AnythingOfType("time.Duration"),
			map[string]string{"kind": "multi", "outcome": "failure"}).Once()

		register(NewMetricsInterceptor(collector))
		_, err := reactive.Collect(context.Background(), reactive.MultiFromFailure(errors.New("broken")))

		require.EqualError(t, err, "broken")
		collector.AssertExpectations(t)
		collector.AssertNotCalled(t, "IncrementCounter", MetricCompletions, labels)
	})

	t.Run("Cancelled Multi", func(t *testing.T) {
		clearRegistries(t)
		collector := &mockMetricsCollector{}
		labels := map[string]string{"kind": "multi"}

		collector.On("IncrementCounter", MetricSubscriptions, labels).Once()
		collector.On("IncrementCounter", MetricItems, labels).Once()
		collector.On("IncrementCounter", MetricCancellations, labels).Once()
		collector.On("RecordDuration", MetricDuration, mock.AnythingOfType("time.Duration"),
			map[string]string{"kind": "multi", "outcome": "cancellation"}).Once()

		register(NewMetricsInterceptor(collector))

		var subscription reactive.Subscription
		reactive.SubscribeMulti(reactive.MultiFromItems(1, 2, 3), reactive.MultiSubscriberFuncs{
			OnSubscribeFunc: func(s reactive.Subscription) {
				subscription = s
				s.Request(3)
			},
			OnNextFunc: func(any) { subscription.Cancel() },
		})

		collector.AssertExpectations(t)
	})
}

func TestTracingInterceptor(t *testing.T) {
	t.Run("Successful subscription", func(t *testing.T) {
		clearRegistries(t)
		tracer := &mockTracer{}
		span := &mockSpan{}

		tracer.On("StartSpan", "uni.subscribe").Return(span).Once()
		span.On("SetTag", "reactive.kind", "uni").Once()
		span.On("SetTag", "reactive.items", int64(1)).Once()
		span.On("Finish").Once()

		register(NewTracingInterceptor(tracer))
		_, err := reactive.Await(context.Background(), reactive.UniFromItem("x"))

		require.NoError(t, err)
		tracer.AssertExpectations(t)
		span.AssertExpectations(t)
		span.AssertNotCalled(t, "SetError", mock.Anything)
	})

	t.Run("Failed subscription sets error", func(t *testing.T) {
		clearRegistries(t)
		tracer := &mockTracer{}
		span := &mockSpan{}
		failure := errors.New("stream broken")

		tracer.On("StartSpan", "multi.subscribe").Return(span).Once()
		span.On("SetTag", "reactive.kind", "multi").Once()
		span.On("SetError", failure).Once()
		span.On("SetTag", "reactive.items", int64(0)).Once()
		span.On("Finish").Once()

		register(NewTracingInterceptor(tracer))
		_, err := reactive.Collect(context.Background(), reactive.MultiFromFailure(failure))

		assert.ErrorIs(t, err, failure)
		tracer.AssertExpectations(t)
		span.AssertExpectations(t)
	})

	t.Run("Cancelled subscription is tagged", func(t *testing.T) {
		clearRegistries(t)
		tracer := &mockTracer{}
		span := &mockSpan{}

		tracer.On("StartSpan", "uni.subscribe").Return(span).Once()
		span.On("SetTag", "reactive.kind", "uni").Once()
		span.On("SetTag", "reactive.cancelled", true).Once()
		span.On("SetTag", "reactive.items", int64(0)).Once()
		span.On("Finish").Once()

		register(NewTracingInterceptor(tracer))
		never := reactive.UniFromEmitter(func(reactive.UniEmitter) {})
		reactive.SubscribeUni(never, reactive.UniSubscriberFuncs{
			OnSubscribeFunc: func(s reactive.UniSubscription) { s.Cancel() },
		})

		span.AssertExpectations(t)
	})
}

func TestTransformInterceptor(t *testing.T) {
	double := func(item any) any { return item.(int) * 2 }

	t.Run("Transforms Uni item", func(t *testing.T) {
		clearRegistries(t)
		register(NewTransformInterceptor("double", double))

		item, err := reactive.AwaitAs[int](context.Background(), reactive.UniFromItem(21))

		require.NoError(t, err)
		assert.Equal(t, 42, item)
	})

	t.Run("Transforms Multi items", func(t *testing.T) {
		clearRegistries(t)
		register(NewTransformInterceptor("double", double))

		items, err := reactive.Collect(context.Background(), reactive.MultiFromItems(1, 2, 3))

		require.NoError(t, err)
		assert.Equal(t, []any{2, 4, 6}, items)
	})

	t.Run("Failures pass through", func(t *testing.T) {
		clearRegistries(t)
		interceptor := NewTransformInterceptor("double", double)
		register(interceptor)

		_, err := reactive.Await(context.Background(), reactive.UniFromFailure(errors.New("nope")))

		assert.EqualError(t, err, "nope")
		assert.Equal(t, "double", interceptor.Name())
	})
}
