package interceptors

import (
	"sync/atomic"

	"github.com/glimte/mmate-rx/reactive"
)

// Interceptor produces the registry entries for both pipeline kinds
type Interceptor interface {
	// Name returns the interceptor name for logging and debugging
	Name() string

	// UniInterceptor returns the Uni registry entry positioned at ordinal
	UniInterceptor(ordinal int) *reactive.UniInterceptor

	// MultiInterceptor returns the Multi registry entry positioned at ordinal
	MultiInterceptor(ordinal int) *reactive.MultiInterceptor
}

// Kind identifies the pipeline kind an observed subscription belongs to
type Kind string

const (
	KindUni   Kind = "uni"
	KindMulti Kind = "multi"
)

// Observer is notified of the signals crossing one subscription, before
// each signal is forwarded. A Uni item is reported as Item then Completed,
// and at most one of Failed, Completed or Cancelled is reported.
type Observer interface {
	Subscribed()
	Item(item any)
	Failed(err error)
	Completed()
	Cancelled()
}

// ObserverFactory creates an Observer for every new subscription
type ObserverFactory func(kind Kind) Observer

// ObservingInterceptor decorates subscribers so an Observer sees their signals
type ObservingInterceptor struct {
	name    string
	factory ObserverFactory
}

// NewObservingInterceptor creates an interceptor notifying observers created by factory
func NewObservingInterceptor(name string, factory ObserverFactory) *ObservingInterceptor {
	return &ObservingInterceptor{name: name, factory: factory}
}

// Name implements Interceptor
func (i *ObservingInterceptor) Name() string {
	return i.name
}

// UniInterceptor implements Interceptor
func (i *ObservingInterceptor) UniInterceptor(ordinal int) *reactive.UniInterceptor {
	return &reactive.UniInterceptor{
		Name:    i.name,
		Ordinal: ordinal,
		OnSubscription: func(_ reactive.Uni, subscriber reactive.UniSubscriber) reactive.UniSubscriber {
			return &observedUniSubscriber{downstream: subscriber, observation: observation{observer: i.factory(KindUni)}}
		},
	}
}

// MultiInterceptor implements Interceptor
func (i *ObservingInterceptor) MultiInterceptor(ordinal int) *reactive.MultiInterceptor {
	return &reactive.MultiInterceptor{
		Name:    i.name,
		Ordinal: ordinal,
		OnSubscription: func(_ reactive.Multi, subscriber reactive.MultiSubscriber) reactive.MultiSubscriber {
			return &observedMultiSubscriber{downstream: subscriber, observation: observation{observer: i.factory(KindMulti)}}
		},
	}
}

// observation reports at most one of Failed, Completed or Cancelled
type observation struct {
	observer Observer
	done     atomic.Bool
}

func (o *observation) failed(err error) {
	if o.done.CompareAndSwap(false, true) {
		o.observer.Failed(err)
	}
}

func (o *observation) completed() {
	if o.done.CompareAndSwap(false, true) {
		o.observer.Completed()
	}
}

func (o *observation) cancelled() {
	if o.done.CompareAndSwap(false, true) {
		o.observer.Cancelled()
	}
}

type observedUniSubscriber struct {
	downstream reactive.UniSubscriber
	observation
}

func (s *observedUniSubscriber) OnSubscribe(subscription reactive.UniSubscription) {
	s.observer.Subscribed()
	s.downstream.OnSubscribe(&observedSubscription{upstream: subscription, observation: &s.observation})
}

func (s *observedUniSubscriber) OnItem(item any) {
	s.observer.Item(item)
	s.completed()
	s.downstream.OnItem(item)
}

func (s *observedUniSubscriber) OnFailure(err error) {
	s.failed(err)
	s.downstream.OnFailure(err)
}

type observedMultiSubscriber struct {
	downstream reactive.MultiSubscriber
	observation
}

func (s *observedMultiSubscriber) OnSubscribe(subscription reactive.Subscription) {
	s.observer.Subscribed()
	s.downstream.OnSubscribe(&observedSubscription{upstream: subscription, observation: &s.observation})
}

func (s *observedMultiSubscriber) OnNext(item any) {
	s.observer.Item(item)
	s.downstream.OnNext(item)
}

func (s *observedMultiSubscriber) OnError(err error) {
	s.failed(err)
	s.downstream.OnError(err)
}

func (s *observedMultiSubscriber) OnComplete() {
	s.completed()
	s.downstream.OnComplete()
}

type observedSubscription struct {
	upstream    reactive.UniSubscription
	observation *observation
}

func (s *observedSubscription) Cancel() {
	s.observation.cancelled()
	s.upstream.Cancel()
}

func (s *observedSubscription) Request(n int64) {
	if multi, ok := s.upstream.(reactive.Subscription); ok {
		multi.Request(n)
	}
}
