package interceptors

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// LoggingInterceptor logs the lifecycle of every subscription
type LoggingInterceptor struct {
	*ObservingInterceptor
	logger *slog.Logger
}

// NewLoggingInterceptor creates a new logging interceptor
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	i := &LoggingInterceptor{logger: logger}
	i.ObservingInterceptor = NewObservingInterceptor("LoggingInterceptor", i.observe)
	return i
}

func (i *LoggingInterceptor) observe(kind Kind) Observer {
	return &loggingObserver{
		logger: i.logger.With("subscriptionId", uuid.New().String(), "kind", string(kind)),
	}
}

type loggingObserver struct {
	logger *slog.Logger
	start  time.Time
	items  atomic.Int64
}

func (o *loggingObserver) Subscribed() {
	o.start = time.Now()
	o.logger.Info("subscription started")
}

func (o *loggingObserver) Item(any) {
	n := o.items.Add(1)
	o.logger.Debug("item received", "index", n-1)
}

func (o *loggingObserver) Failed(err error) {
	o.logger.Error("subscription failed",
		"items", o.items.Load(),
		"duration", time.Since(o.start),
		"error", err,
	)
}

func (o *loggingObserver) Completed() {
	o.logger.Info("subscription completed",
		"items", o.items.Load(),
		"duration", time.Since(o.start),
	)
}

func (o *loggingObserver) Cancelled() {
	o.logger.Info("subscription cancelled",
		"items", o.items.Load(),
		"duration", time.Since(o.start),
	)
}
