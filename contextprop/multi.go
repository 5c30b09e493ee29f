package contextprop

import (
	"github.com/glimte/mmate-rx/reactive"
	"github.com/glimte/mmate-rx/threadcontext"
)

// NewMultiInterceptor creates a Multi interceptor propagating the context managed by svc
func NewMultiInterceptor(svc threadcontext.Service, options ...Option) *reactive.MultiInterceptor {
	cfg := newConfig(options)
	interceptor := &reactive.MultiInterceptor{
		Name:    cfg.name,
		Ordinal: cfg.ordinal,
	}

	if cfg.creationHook {
		interceptor.OnCreation = func(multi reactive.Multi) reactive.Multi {
			return &propagatingMulti{svc: svc, snapshot: svc.Capture(), upstream: multi}
		}
	}
	if cfg.subscriptionHook {
		interceptor.OnSubscription = func(_ reactive.Multi, subscriber reactive.MultiSubscriber) reactive.MultiSubscriber {
			return NewPropagatingMultiSubscriber(svc, subscriber)
		}
	}

	cfg.logger.Debug("multi context propagation configured",
		"interceptor", cfg.name,
		"ordinal", cfg.ordinal,
		"creationHook", cfg.creationHook,
		"subscriptionHook", cfg.subscriptionHook,
	)
	return interceptor
}

// propagatingMulti subscribes to upstream under the context captured at creation
type propagatingMulti struct {
	svc      threadcontext.Service
	snapshot threadcontext.Snapshot
	upstream reactive.Multi
}

func (m *propagatingMulti) Subscribe(subscriber reactive.MultiSubscriber) {
	if subscriber == nil {
		panic(reactive.ErrNilSubscriber)
	}
	within(m.svc, m.snapshot, func() {
		m.upstream.Subscribe(subscriber)
	})
}

// PropagatingMultiSubscriber delivers every signal under the context captured
// when it was created. Request and Cancel reach upstream untouched.
type PropagatingMultiSubscriber struct {
	svc        threadcontext.Service
	snapshot   threadcontext.Snapshot
	downstream reactive.MultiSubscriber
}

// NewPropagatingMultiSubscriber captures the current context of svc for downstream
func NewPropagatingMultiSubscriber(svc threadcontext.Service, downstream reactive.MultiSubscriber) *PropagatingMultiSubscriber {
	return &PropagatingMultiSubscriber{svc: svc, snapshot: svc.Capture(), downstream: downstream}
}

// OnSubscribe implements reactive.MultiSubscriber
func (s *PropagatingMultiSubscriber) OnSubscribe(subscription reactive.Subscription) {
	within(s.svc, s.snapshot, func() {
		s.downstream.OnSubscribe(subscription)
	})
}

// OnNext implements reactive.MultiSubscriber
func (s *PropagatingMultiSubscriber) OnNext(item any) {
	within(s.svc, s.snapshot, func() {
		s.downstream.OnNext(item)
	})
}

// OnError implements reactive.MultiSubscriber
func (s *PropagatingMultiSubscriber) OnError(err error) {
	within(s.svc, s.snapshot, func() {
		s.downstream.OnError(err)
	})
}

// OnComplete implements reactive.MultiSubscriber
func (s *PropagatingMultiSubscriber) OnComplete() {
	within(s.svc, s.snapshot, func() {
		s.downstream.OnComplete()
	})
}
