package reactive

import "reflect"

// Nothing is the type of NoItem
type Nothing struct{}

// NoItem is the item of a Uni that completes without a value. Items are
// never nil; use NoItem instead.
var NoItem = Nothing{}

// UniSubscription lets a Uni subscriber cancel its subscription
type UniSubscription interface {
	Cancel()
}

// Subscription lets a Multi subscriber signal demand or cancel
type Subscription interface {
	UniSubscription

	// Request adds n to the outstanding demand; n must be positive
	Request(n int64)
}

// UniSubscriber consumes the signals of a Uni: one OnSubscribe followed by
// exactly one of OnItem or OnFailure.
type UniSubscriber interface {
	OnSubscribe(subscription UniSubscription)
	OnItem(item any)
	OnFailure(err error)
}

// MultiSubscriber consumes the signals of a Multi: one OnSubscribe, zero or
// more OnNext, then at most one of OnComplete or OnError.
type MultiSubscriber interface {
	OnSubscribe(subscription Subscription)
	OnNext(item any)
	OnError(err error)
	OnComplete()
}

// Uni is a single-emission pipeline. Subscribe is the raw subscribing path;
// callers use SubscribeUni so interceptors and the Protocol Guard apply.
type Uni interface {
	Subscribe(subscriber UniSubscriber)
}

// Multi is a multi-emission pipeline. Subscribe is the raw subscribing path;
// callers use SubscribeMulti so interceptors and the Protocol Guard apply.
type Multi interface {
	Subscribe(subscriber MultiSubscriber)
}

// UniFunc is a function adapter for Uni
type UniFunc func(subscriber UniSubscriber)

// Subscribe implements Uni
func (f UniFunc) Subscribe(subscriber UniSubscriber) {
	f(subscriber)
}

// MultiFunc is a function adapter for Multi
type MultiFunc func(subscriber MultiSubscriber)

// Subscribe implements Multi
func (f MultiFunc) Subscribe(subscriber MultiSubscriber) {
	f(subscriber)
}

// UniSubscriberFuncs is a function adapter for UniSubscriber; nil funcs ignore the signal
type UniSubscriberFuncs struct {
	OnSubscribeFunc func(UniSubscription)
	OnItemFunc      func(any)
	OnFailureFunc   func(error)
}

// OnSubscribe implements UniSubscriber
func (f UniSubscriberFuncs) OnSubscribe(subscription UniSubscription) {
	if f.OnSubscribeFunc != nil {
		f.OnSubscribeFunc(subscription)
	}
}

// OnItem implements UniSubscriber
func (f UniSubscriberFuncs) OnItem(item any) {
	if f.OnItemFunc != nil {
		f.OnItemFunc(item)
	}
}

// OnFailure implements UniSubscriber
func (f UniSubscriberFuncs) OnFailure(err error) {
	if f.OnFailureFunc != nil {
		f.OnFailureFunc(err)
	}
}

// MultiSubscriberFuncs is a function adapter for MultiSubscriber; nil funcs ignore the signal
type MultiSubscriberFuncs struct {
	OnSubscribeFunc func(Subscription)
	OnNextFunc      func(any)
	OnErrorFunc     func(error)
	OnCompleteFunc  func()
}

// OnSubscribe implements MultiSubscriber
func (f MultiSubscriberFuncs) OnSubscribe(subscription Subscription) {
	if f.OnSubscribeFunc != nil {
		f.OnSubscribeFunc(subscription)
	}
}

// OnNext implements MultiSubscriber
func (f MultiSubscriberFuncs) OnNext(item any) {
	if f.OnNextFunc != nil {
		f.OnNextFunc(item)
	}
}

// OnError implements MultiSubscriber
func (f MultiSubscriberFuncs) OnError(err error) {
	if f.OnErrorFunc != nil {
		f.OnErrorFunc(err)
	}
}

// OnComplete implements MultiSubscriber
func (f MultiSubscriberFuncs) OnComplete() {
	if f.OnCompleteFunc != nil {
		f.OnCompleteFunc()
	}
}

type noopSubscription struct{}

func (noopSubscription) Cancel() {}

func (noopSubscription) Request(int64) {}

// EmptySubscription is a subscription that ignores demand and cancellation
var EmptySubscription Subscription = noopSubscription{}

// isNull reports whether item is nil or a typed nil reference
func isNull(item any) bool {
	if item == nil {
		return true
	}
	v := reflect.ValueOf(item)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
