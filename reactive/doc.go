// Package reactive provides single-emission (Uni) and multi-emission (Multi)
// pipelines together with the machinery that lets interceptors wrap them.
//
// The package provides:
//   - Uni and Multi pipeline contracts and their subscribers
//   - a Protocol Guard (StrictUniSubscriber, StrictMultiSubscriber) that enforces
//     the subscriber state machine Idle -> Subscribed -> Terminal
//   - process-wide, ordinal-sorted interceptor registries
//   - the creation and subscription hook points every pipeline goes through
//   - a handful of sources and blocking helpers (Await, Collect)
//
// Hook order:
//
// Interceptors are listed in ascending ordinal, ties kept in registration
// order. Creation hooks and subscription hooks are both applied left to right
// over that list, each receiving the previous one's output. For subscription
// this makes the lowest ordinal the innermost decorator, the one closest to
// the real subscriber. Signals therefore travel
//
//	producer -> Protocol Guard -> hook(N) -> ... -> hook(1) -> subscriber
//
// Example usage:
//
//	reactive.RegisterUniInterceptor(&reactive.UniInterceptor{
//		Name:    "plus-one",
//		Ordinal: 10,
//		OnSubscription: func(_ reactive.Uni, s reactive.UniSubscriber) reactive.UniSubscriber {
//			return reactive.UniSubscriberFuncs{
//				OnSubscribeFunc: s.OnSubscribe,
//				OnItemFunc:      func(item any) { s.OnItem(item.(int) + 1) },
//				OnFailureFunc:   s.OnFailure,
//			}
//		},
//	})
//
//	item, err := reactive.Await(ctx, reactive.UniFromItem(41))
//
// Uni.Subscribe and Multi.Subscribe are the raw subscribing paths and run no
// hooks; always go through SubscribeUni / SubscribeMulti unless you are an
// interceptor delegating to the pipeline you wrap.
package reactive
