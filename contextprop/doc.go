// Package contextprop provides interceptors that carry ambient execution
// context across Uni and Multi pipelines.
//
// Two hooks are installed per pipeline kind:
//   - the creation hook captures a snapshot when the pipeline is built and
//     re-establishes it around the act of subscribing;
//   - the subscription hook captures a snapshot when a subscriber attaches and
//     re-establishes it around every signal delivered to that subscriber.
//
// Each application is an Apply immediately followed by delivery and a
// deferred Restore, so the displaced context comes back even when the
// subscriber panics.
//
// When both hooks are enabled, the subscription decorator sits closer to the
// subscriber than anything the creation decorator wraps, so signals are
// observed under the subscriber's context and the creation context governs
// only what runs while subscribing. Disable the subscription hook to have
// synchronously delivered signals observed under the creation context:
//
//	principal := threadcontext.NewSlot("principal", "anonymous")
//	contextprop.Register(principal.Service(), contextprop.WithSubscriptionHook(false))
package contextprop
