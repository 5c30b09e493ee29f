package interceptors

import (
	"log/slog"
	"sync"

	"github.com/glimte/mmate-rx/contextprop"
	"github.com/glimte/mmate-rx/reactive"
	"github.com/glimte/mmate-rx/threadcontext"
)

// OrdinalStep separates the ordinals the Installer hands out
const OrdinalStep = 10

// Installer registers a set of interceptors in the process-wide registries
type Installer struct {
	interceptors []Interceptor
	baseOrdinal  int
	logger       *slog.Logger
}

// NewInstaller creates a new installer
func NewInstaller(logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Installer{
		baseOrdinal: reactive.DefaultOrdinal,
		logger:      logger,
	}
}

// WithBaseOrdinal sets the ordinal of the first interceptor
func (b *Installer) WithBaseOrdinal(ordinal int) *Installer {
	b.baseOrdinal = ordinal
	return b
}

// WithLogging adds logging interceptor
func (b *Installer) WithLogging() *Installer {
	return b.WithCustom(NewLoggingInterceptor(b.logger))
}

// WithMetrics adds metrics interceptor
func (b *Installer) WithMetrics(collector MetricsCollector) *Installer {
	return b.WithCustom(NewMetricsInterceptor(collector))
}

// WithTracing adds tracing interceptor
func (b *Installer) WithTracing(tracer Tracer) *Installer {
	return b.WithCustom(NewTracingInterceptor(tracer))
}

// WithTransform adds an item transforming interceptor
func (b *Installer) WithTransform(name string, transform func(item any) any) *Installer {
	return b.WithCustom(NewTransformInterceptor(name, transform))
}

// WithContextPropagation adds context propagation for svc. The ordinal
// option is overridden by the position in the installer.
func (b *Installer) WithContextPropagation(svc threadcontext.Service, options ...contextprop.Option) *Installer {
	return b.WithCustom(&contextPropagation{svc: svc, options: options, logger: b.logger})
}

// WithCustom adds a custom interceptor
func (b *Installer) WithCustom(interceptor Interceptor) *Installer {
	b.interceptors = append(b.interceptors, interceptor)
	return b
}

// Install registers every added interceptor and returns a func removing them again
func (b *Installer) Install() (uninstall func()) {
	unis := make([]*reactive.UniInterceptor, 0, len(b.interceptors))
	multis := make([]*reactive.MultiInterceptor, 0, len(b.interceptors))

	for idx, interceptor := range b.interceptors {
		ordinal := b.baseOrdinal + idx*OrdinalStep

		uni := interceptor.UniInterceptor(ordinal)
		multi := interceptor.MultiInterceptor(ordinal)
		reactive.RegisterUniInterceptor(uni)
		reactive.RegisterMultiInterceptor(multi)
		unis = append(unis, uni)
		multis = append(multis, multi)

		b.logger.Debug("installed interceptor", "interceptor", interceptor.Name(), "ordinal", ordinal)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, uni := range unis {
				reactive.UnregisterUniInterceptor(uni)
			}
			for _, multi := range multis {
				reactive.UnregisterMultiInterceptor(multi)
			}
			b.logger.Debug("uninstalled interceptors", "count", len(unis))
		})
	}
}

type contextPropagation struct {
	svc     threadcontext.Service
	options []contextprop.Option
	logger  *slog.Logger
}

func (c *contextPropagation) Name() string {
	return "ContextPropagationInterceptor"
}

func (c *contextPropagation) with(ordinal int) []contextprop.Option {
	options := []contextprop.Option{contextprop.WithName(c.Name()), contextprop.WithLogger(c.logger)}
	options = append(options, c.options...)
	return append(options, contextprop.WithOrdinal(ordinal))
}

func (c *contextPropagation) UniInterceptor(ordinal int) *reactive.UniInterceptor {
	return contextprop.NewUniInterceptor(c.svc, c.with(ordinal)...)
}

func (c *contextPropagation) MultiInterceptor(ordinal int) *reactive.MultiInterceptor {
	return contextprop.NewMultiInterceptor(c.svc, c.with(ordinal)...)
}
