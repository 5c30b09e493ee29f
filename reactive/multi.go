package reactive

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
)

// addDemand adds n to requested, saturating at math.MaxInt64, and returns the previous value
func addDemand(requested *atomic.Int64, n int64) int64 {
	for {
		current := requested.Load()
		if current == math.MaxInt64 {
			return current
		}
		next := current + n
		if next < 0 {
			next = math.MaxInt64
		}
		if requested.CompareAndSwap(current, next) {
			return current
		}
	}
}

type itemsMulti struct {
	items []any
}

func (m *itemsMulti) Subscribe(subscriber MultiSubscriber) {
	subscription := &itemsSubscription{items: m.items, downstream: subscriber}
	subscriber.OnSubscribe(subscription)
	if len(m.items) == 0 && subscription.finish() {
		subscriber.OnComplete()
	}
}

type itemsSubscription struct {
	items      []any
	downstream MultiSubscriber
	index      int
	requested  atomic.Int64
	done       atomic.Bool
}

// finish marks the subscription terminated and reports whether this call did it
func (s *itemsSubscription) finish() bool {
	return s.done.CompareAndSwap(false, true)
}

func (s *itemsSubscription) Cancel() {
	s.done.Store(true)
}

func (s *itemsSubscription) Request(n int64) {
	if n <= 0 {
		if s.finish() {
			s.downstream.OnError(violation("request", ErrInvalidRequest))
		}
		return
	}
	if addDemand(&s.requested, n) == 0 {
		s.drain(n)
	}
}

// drain runs on the goroutine that moved demand away from zero; reentrant
// Request calls only add demand that this loop picks up.
func (s *itemsSubscription) drain(n int64) {
	emitted := int64(0)
	for {
		for emitted != n && s.index < len(s.items) {
			if s.done.Load() {
				return
			}
			item := s.items[s.index]
			s.index++
			emitted++
			s.downstream.OnNext(item)
		}

		if s.index == len(s.items) {
			if s.finish() {
				s.downstream.OnComplete()
			}
			return
		}

		n = s.requested.Load()
		if n == emitted {
			n = s.requested.Add(-emitted)
			if n == 0 {
				return
			}
			emitted = 0
		}
	}
}

// MultiFromItems creates a Multi emitting items in order, honouring demand
func MultiFromItems(items ...any) Multi {
	copied := make([]any, len(items))
	copy(copied, items)
	return OnMultiCreation(&itemsMulti{items: copied})
}

// MultiFromFailure creates a Multi failing with err right after subscription
func MultiFromFailure(err error) Multi {
	if err == nil {
		err = violation("onError", ErrNullFailure)
	}
	return OnMultiCreation(MultiFunc(func(subscriber MultiSubscriber) {
		subscription := &cancellable{}
		subscriber.OnSubscribe(subscription)
		if !subscription.isCancelled() {
			subscriber.OnError(err)
		}
	}))
}

// MultiEmitter drives a Multi created with MultiFromEmitter. Emit may be
// called from several goroutines; the Protocol Guard serializes delivery.
// Demand is tracked but not enforced.
type MultiEmitter interface {
	Emit(item any)
	Fail(err error)
	Complete()
	IsCancelled() bool
	Requested() int64
	OnCancellation(fn func())
}

type multiEmitter struct {
	downstream MultiSubscriber
	requested  atomic.Int64
	done       atomic.Bool

	mu        sync.Mutex
	cancelled bool
	onCancel  []func()
}

func (e *multiEmitter) Emit(item any) {
	if e.done.Load() {
		return
	}
	e.downstream.OnNext(item)
	if e.requested.Load() != math.MaxInt64 {
		e.requested.Add(-1)
	}
}

func (e *multiEmitter) Fail(err error) {
	if e.done.CompareAndSwap(false, true) {
		e.downstream.OnError(err)
	}
}

func (e *multiEmitter) Complete() {
	if e.done.CompareAndSwap(false, true) {
		e.downstream.OnComplete()
	}
}

func (e *multiEmitter) IsCancelled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelled
}

func (e *multiEmitter) Requested() int64 {
	return e.requested.Load()
}

func (e *multiEmitter) OnCancellation(fn func()) {
	e.mu.Lock()
	if !e.cancelled {
		e.onCancel = append(e.onCancel, fn)
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	fn()
}

func (e *multiEmitter) Request(n int64) {
	if n <= 0 {
		e.Fail(violation("request", ErrInvalidRequest))
		return
	}
	addDemand(&e.requested, n)
}

func (e *multiEmitter) Cancel() {
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

// MultiFromEmitter creates a Multi driven by fn, which may hand the emitter
// to other goroutines and return early.
func MultiFromEmitter(fn func(emitter MultiEmitter)) Multi {
	return OnMultiCreation(MultiFunc(func(subscriber MultiSubscriber) {
		emitter := &multiEmitter{downstream: subscriber}
		subscriber.OnSubscribe(emitter)
		if emitter.IsCancelled() {
			return
		}
		fn(emitter)
	}))
}

type channelMulti[T any] struct {
	ctx    context.Context
	source <-chan T
}

func (m *channelMulti[T]) Subscribe(subscriber MultiSubscriber) {
	subscription := &channelSubscription{
		downstream: subscriber,
		wake:       make(chan struct{}, 1),
		cancelled:  make(chan struct{}),
	}
	subscriber.OnSubscribe(subscription)
	go pump(m.ctx, m.source, subscription)
}

type channelSubscription struct {
	downstream MultiSubscriber
	requested  atomic.Int64
	wake       chan struct{}
	cancelled  chan struct{}
	cancelOnce sync.Once
	done       atomic.Bool
}

func (s *channelSubscription) Request(n int64) {
	if n <= 0 {
		if s.done.CompareAndSwap(false, true) {
			s.Cancel()
			s.downstream.OnError(violation("request", ErrInvalidRequest))
		}
		return
	}
	addDemand(&s.requested, n)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *channelSubscription) Cancel() {
	s.cancelOnce.Do(func() { close(s.cancelled) })
}

func (s *channelSubscription) isCancelled() bool {
	select {
	case <-s.cancelled:
		return true
	default:
		return false
	}
}

func pump[T any](ctx context.Context, source <-chan T, s *channelSubscription) {
	for {
		for s.requested.Load() == 0 {
			select {
			case <-s.wake:
			case <-s.cancelled:
				return
			case <-ctx.Done():
				if s.done.CompareAndSwap(false, true) {
					s.downstream.OnError(ctx.Err())
				}
				return
			}
		}

		// a ready item must not win the select over a cancellation
		if s.isCancelled() {
			return
		}

		select {
		case <-s.cancelled:
			return
		case <-ctx.Done():
			if s.done.CompareAndSwap(false, true) {
				s.downstream.OnError(ctx.Err())
			}
			return
		case item, ok := <-source:
			if !ok {
				if s.done.CompareAndSwap(false, true) {
					s.downstream.OnComplete()
				}
				return
			}
			if s.done.Load() || s.isCancelled() {
				return
			}
			if s.requested.Load() != math.MaxInt64 {
				s.requested.Add(-1)
			}
			s.downstream.OnNext(item)
		}
	}
}

// MultiFromChannel creates a Multi emitting the values received from source
// under demand. A closed channel completes the Multi and a done ctx fails it
// with ctx.Err(). Each subscription starts its own pump goroutine, so several
// subscribers share the channel's values between them.
func MultiFromChannel[T any](ctx context.Context, source <-chan T) Multi {
	if ctx == nil {
		ctx = context.Background()
	}
	return OnMultiCreation(&channelMulti[T]{ctx: ctx, source: source})
}

type mapMulti struct {
	upstream Multi
	mapper   func(any) any
}

func (m *mapMulti) Subscribe(subscriber MultiSubscriber) {
	SubscribeMulti(m.upstream, &mapMultiSubscriber{downstream: subscriber, mapper: m.mapper})
}

type mapMultiSubscriber struct {
	downstream MultiSubscriber
	mapper     func(any) any
}

func (s *mapMultiSubscriber) OnSubscribe(subscription Subscription) {
	s.downstream.OnSubscribe(subscription)
}

func (s *mapMultiSubscriber) OnNext(item any) {
	s.downstream.OnNext(s.mapper(item))
}

func (s *mapMultiSubscriber) OnError(err error) {
	s.downstream.OnError(err)
}

func (s *mapMultiSubscriber) OnComplete() {
	s.downstream.OnComplete()
}

// MapMulti creates a Multi emitting mapper applied to every item of upstream
func MapMulti(upstream Multi, mapper func(item any) any) Multi {
	return OnMultiCreation(&mapMulti{upstream: upstream, mapper: mapper})
}

type collectSubscriber struct {
	mu           sync.Mutex
	items        []any
	subscription Subscription
	cancelled    bool
	done         chan error
}

func (s *collectSubscriber) OnSubscribe(subscription Subscription) {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		subscription.Cancel()
		return
	}
	s.subscription = subscription
	s.mu.Unlock()

	subscription.Request(math.MaxInt64)
}

func (s *collectSubscriber) OnNext(item any) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
}

func (s *collectSubscriber) OnError(err error) {
	s.done <- err
}

func (s *collectSubscriber) OnComplete() {
	s.done <- nil
}

func (s *collectSubscriber) cancel() {
	s.mu.Lock()
	s.cancelled = true
	subscription := s.subscription
	s.mu.Unlock()

	if subscription != nil {
		subscription.Cancel()
	}
}

func (s *collectSubscriber) collected() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

// Collect subscribes to multi with unbounded demand and blocks until it
// terminates or ctx is done. Items received before a failure are returned
// alongside the error.
func Collect(ctx context.Context, multi Multi) ([]any, error) {
	subscriber := &collectSubscriber{done: make(chan error, 1)}
	SubscribeMulti(multi, subscriber)

	select {
	case err := <-subscriber.done:
		return subscriber.collected(), err
	case <-ctx.Done():
		subscriber.cancel()
		return subscriber.collected(), ctx.Err()
	}
}
