package contextprop

import (
	"github.com/glimte/mmate-rx/reactive"
	"github.com/glimte/mmate-rx/threadcontext"
)

// within runs fn with snapshot applied and restores the displaced context on every exit path
func within(svc threadcontext.Service, snapshot threadcontext.Snapshot, fn func()) {
	displaced := svc.Apply(snapshot)
	defer svc.Restore(snapshot, displaced)
	fn()
}

// Register installs context-propagating interceptors for both pipeline kinds
// in the process-wide registries and returns them.
func Register(svc threadcontext.Service, options ...Option) (*reactive.UniInterceptor, *reactive.MultiInterceptor) {
	uni := NewUniInterceptor(svc, options...)
	multi := NewMultiInterceptor(svc, options...)
	reactive.RegisterUniInterceptor(uni)
	reactive.RegisterMultiInterceptor(multi)
	return uni, multi
}
