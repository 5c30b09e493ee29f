package contextprop

import (
	"github.com/glimte/mmate-rx/reactive"
	"github.com/glimte/mmate-rx/threadcontext"
)

// NewUniInterceptor creates a Uni interceptor propagating the context managed by svc
func NewUniInterceptor(svc threadcontext.Service, options ...Option) *reactive.UniInterceptor {
	cfg := newConfig(options)
	interceptor := &reactive.UniInterceptor{
		Name:    cfg.name,
		Ordinal: cfg.ordinal,
	}

	if cfg.creationHook {
		interceptor.OnCreation = func(uni reactive.Uni) reactive.Uni {
			return &propagatingUni{svc: svc, snapshot: svc.Capture(), upstream: uni}
		}
	}
	if cfg.subscriptionHook {
		interceptor.OnSubscription = func(_ reactive.Uni, subscriber reactive.UniSubscriber) reactive.UniSubscriber {
			return NewPropagatingUniSubscriber(svc, subscriber)
		}
	}

	cfg.logger.Debug("uni context propagation configured",
		"interceptor", cfg.name,
		"ordinal", cfg.ordinal,
		"creationHook", cfg.creationHook,
		"subscriptionHook", cfg.subscriptionHook,
	)
	return interceptor
}

// propagatingUni subscribes to upstream under the context captured at creation
type propagatingUni struct {
	svc      threadcontext.Service
	snapshot threadcontext.Snapshot
	upstream reactive.Uni
}

func (u *propagatingUni) Subscribe(subscriber reactive.UniSubscriber) {
	if subscriber == nil {
		panic(reactive.ErrNilSubscriber)
	}
	within(u.svc, u.snapshot, func() {
		u.upstream.Subscribe(subscriber)
	})
}

// PropagatingUniSubscriber delivers every signal under the context captured
// when it was created.
type PropagatingUniSubscriber struct {
	svc        threadcontext.Service
	snapshot   threadcontext.Snapshot
	downstream reactive.UniSubscriber
}

// NewPropagatingUniSubscriber captures the current context of svc for downstream
func NewPropagatingUniSubscriber(svc threadcontext.Service, downstream reactive.UniSubscriber) *PropagatingUniSubscriber {
	return &PropagatingUniSubscriber{svc: svc, snapshot: svc.Capture(), downstream: downstream}
}

// OnSubscribe implements reactive.UniSubscriber
func (s *PropagatingUniSubscriber) OnSubscribe(subscription reactive.UniSubscription) {
	within(s.svc, s.snapshot, func() {
		s.downstream.OnSubscribe(subscription)
	})
}

// OnItem implements reactive.UniSubscriber
func (s *PropagatingUniSubscriber) OnItem(item any) {
	within(s.svc, s.snapshot, func() {
		s.downstream.OnItem(item)
	})
}

// OnFailure implements reactive.UniSubscriber
func (s *PropagatingUniSubscriber) OnFailure(err error) {
	within(s.svc, s.snapshot, func() {
		s.downstream.OnFailure(err)
	})
}
