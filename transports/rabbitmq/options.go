package rabbitmq

import (
	"log/slog"
)

type deliveryConfig struct {
	autoAck        bool
	requeueOnPanic bool
	prefetch       int
	consumerTag    string
	exclusive      bool
	logger         *slog.Logger
}

// DeliveryOption configures how deliveries are consumed and acknowledged
type DeliveryOption func(*deliveryConfig)

// WithAutoAck leaves acknowledgement to the broker
func WithAutoAck(enabled bool) DeliveryOption {
	return func(c *deliveryConfig) {
		c.autoAck = enabled
	}
}

// WithRequeueOnPanic sets whether a delivery whose OnNext panics is requeued
func WithRequeueOnPanic(enabled bool) DeliveryOption {
	return func(c *deliveryConfig) {
		c.requeueOnPanic = enabled
	}
}

// WithPrefetch sets the channel QoS prefetch count used by Consume
func WithPrefetch(count int) DeliveryOption {
	return func(c *deliveryConfig) {
		c.prefetch = count
	}
}

// WithConsumerTag sets the consumer tag used by Consume
func WithConsumerTag(tag string) DeliveryOption {
	return func(c *deliveryConfig) {
		c.consumerTag = tag
	}
}

// WithExclusive requests exclusive consumer access in Consume
func WithExclusive(enabled bool) DeliveryOption {
	return func(c *deliveryConfig) {
		c.exclusive = enabled
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) DeliveryOption {
	return func(c *deliveryConfig) {
		c.logger = logger
	}
}

func newDeliveryConfig(options []DeliveryOption) *deliveryConfig {
	cfg := &deliveryConfig{
		requeueOnPanic: true,
		logger:         slog.Default(),
	}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}
