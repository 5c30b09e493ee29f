package reactive

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// cancellable is the subscription handed out by the built-in sources
type cancellable struct {
	cancelled atomic.Bool
	onCancel  func()
}

func (c *cancellable) Cancel() {
	if c.cancelled.CompareAndSwap(false, true) && c.onCancel != nil {
		c.onCancel()
	}
}

// Request is a no-op; sources using cancellable emit no items under demand
func (c *cancellable) Request(int64) {}

func (c *cancellable) isCancelled() bool {
	return c.cancelled.Load()
}

type itemUni struct {
	item    any
	failure error
}

func (u *itemUni) Subscribe(subscriber UniSubscriber) {
	subscription := &cancellable{}
	subscriber.OnSubscribe(subscription)
	if subscription.isCancelled() {
		return
	}
	if u.failure != nil {
		subscriber.OnFailure(u.failure)
		return
	}
	subscriber.OnItem(u.item)
}

// UniFromItem creates a Uni emitting item
func UniFromItem(item any) Uni {
	return OnUniCreation(&itemUni{item: item})
}

// UniVoid creates a Uni emitting NoItem
func UniVoid() Uni {
	return UniFromItem(NoItem)
}

// UniFromFailure creates a Uni failing with err
func UniFromFailure(err error) Uni {
	if err == nil {
		err = violation("onFailure", ErrNullFailure)
	}
	return OnUniCreation(&itemUni{failure: err})
}

// UniEmitter completes a Uni created with UniFromEmitter. Only the first
// Complete or Fail call has an effect.
type UniEmitter interface {
	Complete(item any)
	Fail(err error)
	IsCancelled() bool
	OnCancellation(fn func())
}

type uniEmitter struct {
	downstream UniSubscriber
	done       atomic.Bool

	mu        sync.Mutex
	cancelled bool
	onCancel  []func()
}

func (e *uniEmitter) Complete(item any) {
	if e.done.CompareAndSwap(false, true) {
		e.downstream.OnItem(item)
	}
}

func (e *uniEmitter) Fail(err error) {
	if e.done.CompareAndSwap(false, true) {
		e.downstream.OnFailure(err)
	}
}

func (e *uniEmitter) IsCancelled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelled
}

func (e *uniEmitter) OnCancellation(fn func()) {
	e.mu.Lock()
	if !e.cancelled {
		e.onCancel = append(e.onCancel, fn)
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	fn()
}

func (e *uniEmitter) Cancel() {
	e.mu.Lock()
	if e.cancelled {
		e.mu.Unlock()
		return
	}
	e.cancelled = true
	callbacks := e.onCancel
	e.onCancel = nil
	e.mu.Unlock()

	e.done.Store(true)
	for _, fn := range callbacks {
		fn()
	}
}

// UniFromEmitter creates a Uni completed by fn, which may hand the emitter
// to another goroutine and return early.
func UniFromEmitter(fn func(emitter UniEmitter)) Uni {
	return OnUniCreation(UniFunc(func(subscriber UniSubscriber) {
		emitter := &uniEmitter{downstream: subscriber}
		subscriber.OnSubscribe(emitter)
		if emitter.IsCancelled() {
			return
		}
		fn(emitter)
	}))
}

type mapUni struct {
	upstream Uni
	mapper   func(any) any
}

func (u *mapUni) Subscribe(subscriber UniSubscriber) {
	SubscribeUni(u.upstream, &mapUniSubscriber{downstream: subscriber, mapper: u.mapper})
}

type mapUniSubscriber struct {
	downstream UniSubscriber
	mapper     func(any) any
}

func (s *mapUniSubscriber) OnSubscribe(subscription UniSubscription) {
	s.downstream.OnSubscribe(subscription)
}

func (s *mapUniSubscriber) OnItem(item any) {
	s.downstream.OnItem(s.mapper(item))
}

func (s *mapUniSubscriber) OnFailure(err error) {
	s.downstream.OnFailure(err)
}

// MapUni creates a Uni emitting mapper applied to the item of upstream
func MapUni(upstream Uni, mapper func(item any) any) Uni {
	return OnUniCreation(&mapUni{upstream: upstream, mapper: mapper})
}

type uniResult struct {
	item any
	err  error
}

type awaitSubscriber struct {
	results chan uniResult

	mu           sync.Mutex
	subscription UniSubscription
	cancelled    bool
}

func (s *awaitSubscriber) OnSubscribe(subscription UniSubscription) {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		subscription.Cancel()
		return
	}
	s.subscription = subscription
	s.mu.Unlock()
}

func (s *awaitSubscriber) OnItem(item any) {
	s.results <- uniResult{item: item}
}

func (s *awaitSubscriber) OnFailure(err error) {
	s.results <- uniResult{err: err}
}

func (s *awaitSubscriber) cancel() {
	s.mu.Lock()
	s.cancelled = true
	subscription := s.subscription
	s.mu.Unlock()

	if subscription != nil {
		subscription.Cancel()
	}
}

// Await subscribes to uni and blocks until it terminates or ctx is done, in
// which case the subscription is cancelled and ctx.Err() returned.
func Await(ctx context.Context, uni Uni) (any, error) {
	subscriber := &awaitSubscriber{results: make(chan uniResult, 1)}
	SubscribeUni(uni, subscriber)

	select {
	case result := <-subscriber.results:
		return result.item, result.err
	case <-ctx.Done():
		subscriber.cancel()
		return nil, ctx.Err()
	}
}

// AwaitAs is Await with the item asserted to T
func AwaitAs[T any](ctx context.Context, uni Uni) (T, error) {
	var zero T
	item, err := Await(ctx, uni)
	if err != nil {
		return zero, err
	}
	typed, ok := item.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrUnexpectedItem, item, zero)
	}
	return typed, nil
}
