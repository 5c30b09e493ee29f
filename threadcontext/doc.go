// Package threadcontext provides the context snapshot service consumed by the
// context-propagating interceptors.
//
// Go has no thread-local storage, so ambient execution context is modelled as
// explicit cells (Slot, Bag) owned by the application. A Service captures the
// current state of those cells into an immutable Snapshot, applies a snapshot
// by swapping it in and returning what was displaced, and restores the
// displaced state afterwards:
//
//	principal := threadcontext.NewSlot("principal", "anonymous")
//	locale := threadcontext.NewSlot("locale", "en")
//	svc := threadcontext.Compose(principal.Service(), locale.Service())
//
//	snapshot := svc.Capture()
//	displaced := svc.Apply(snapshot)
//	defer svc.Restore(snapshot, displaced)
//
// Every Apply must be matched by exactly one Restore on the same execution
// path before the next Apply proceeds. Services never return errors: handing
// a service a snapshot or displaced value it did not produce is a
// configuration error and panics with a *ServiceError.
package threadcontext
