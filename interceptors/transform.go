package interceptors

import (
	"github.com/glimte/mmate-rx/reactive"
)

// TransformInterceptor rewrites every item before the subscriber sees it.
// Failures, completion and cancellation pass through unchanged.
type TransformInterceptor struct {
	name      string
	transform func(item any) any
}

// NewTransformInterceptor creates a transforming interceptor
func NewTransformInterceptor(name string, transform func(item any) any) *TransformInterceptor {
	return &TransformInterceptor{name: name, transform: transform}
}

// Name implements Interceptor
func (i *TransformInterceptor) Name() string {
	return i.name
}

// UniInterceptor implements Interceptor
func (i *TransformInterceptor) UniInterceptor(ordinal int) *reactive.UniInterceptor {
	return &reactive.UniInterceptor{
		Name:    i.name,
		Ordinal: ordinal,
		OnSubscription: func(_ reactive.Uni, subscriber reactive.UniSubscriber) reactive.UniSubscriber {
			return reactive.UniSubscriberFuncs{
				OnSubscribeFunc: subscriber.OnSubscribe,
				OnItemFunc: func(item any) {
					subscriber.OnItem(i.transform(item))
				},
				OnFailureFunc: subscriber.OnFailure,
			}
		},
	}
}

// MultiInterceptor implements Interceptor
func (i *TransformInterceptor) MultiInterceptor(ordinal int) *reactive.MultiInterceptor {
	return &reactive.MultiInterceptor{
		Name:    i.name,
		Ordinal: ordinal,
		OnSubscription: func(_ reactive.Multi, subscriber reactive.MultiSubscriber) reactive.MultiSubscriber {
			return reactive.MultiSubscriberFuncs{
				OnSubscribeFunc: subscriber.OnSubscribe,
				OnNextFunc: func(item any) {
					subscriber.OnNext(i.transform(item))
				},
				OnErrorFunc:    subscriber.OnError,
				OnCompleteFunc: subscriber.OnComplete,
			}
		},
	}
}
