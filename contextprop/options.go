package contextprop

import (
	"log/slog"

	"github.com/glimte/mmate-rx/reactive"
)

type config struct {
	name             string
	ordinal          int
	creationHook     bool
	subscriptionHook bool
	logger           *slog.Logger
}

// Option configures the context-propagating interceptors
type Option func(*config)

// WithName sets the interceptor name
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithOrdinal sets the interceptor ordinal
func WithOrdinal(ordinal int) Option {
	return func(c *config) {
		c.ordinal = ordinal
	}
}

// WithCreationHook enables or disables the creation hook
func WithCreationHook(enabled bool) Option {
	return func(c *config) {
		c.creationHook = enabled
	}
}

// WithSubscriptionHook enables or disables the subscription hook
func WithSubscriptionHook(enabled bool) Option {
	return func(c *config) {
		c.subscriptionHook = enabled
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(options []Option) *config {
	cfg := &config{
		name:             "context-propagation",
		ordinal:          reactive.DefaultOrdinal,
		creationHook:     true,
		subscriptionHook: true,
		logger:           slog.Default(),
	}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}
