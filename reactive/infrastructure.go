package reactive

// DefaultOrdinal is the starting ordinal the contextprop interceptors and
// interceptors.Installer assign when no ordinal option is given. The
// registries never apply it: a zero Ordinal registers as 0 and runs before it.
const DefaultOrdinal = 100

// UniInterceptor is a pair of Uni hooks plus the ordinal that positions them.
// A nil hook leaves its input unchanged.
type UniInterceptor struct {
	Name    string
	Ordinal int

	// OnCreation is called once per constructed Uni and returns the Uni the caller gets
	OnCreation func(uni Uni) Uni

	// OnSubscription is called once per subscription and returns the subscriber attached to uni
	OnSubscription func(uni Uni, subscriber UniSubscriber) UniSubscriber
}

// MultiInterceptor is a pair of Multi hooks plus the ordinal that positions them.
// A nil hook leaves its input unchanged.
type MultiInterceptor struct {
	Name    string
	Ordinal int

	// OnCreation is called once per constructed Multi and returns the Multi the caller gets
	OnCreation func(multi Multi) Multi

	// OnSubscription is called once per subscription and returns the subscriber attached to multi
	OnSubscription func(multi Multi, subscriber MultiSubscriber) MultiSubscriber
}

var (
	uniInterceptors   = NewRegistry(func(i *UniInterceptor) int { return i.Ordinal })
	multiInterceptors = NewRegistry(func(i *MultiInterceptor) int { return i.Ordinal })
)

// RegisterUniInterceptor adds interceptor to the process-wide Uni registry
func RegisterUniInterceptor(interceptor *UniInterceptor) {
	if interceptor == nil {
		return
	}
	uniInterceptors.Register(interceptor)
}

// UnregisterUniInterceptor removes interceptor from the process-wide Uni registry
func UnregisterUniInterceptor(interceptor *UniInterceptor) bool {
	return uniInterceptors.Unregister(interceptor)
}

// ClearUniInterceptors empties the process-wide Uni registry
func ClearUniInterceptors() {
	uniInterceptors.Clear()
}

// UniInterceptors lists the registered Uni interceptors in application order
func UniInterceptors() []*UniInterceptor {
	return uniInterceptors.List()
}

// RegisterMultiInterceptor adds interceptor to the process-wide Multi registry
func RegisterMultiInterceptor(interceptor *MultiInterceptor) {
	if interceptor == nil {
		return
	}
	multiInterceptors.Register(interceptor)
}

// UnregisterMultiInterceptor removes interceptor from the process-wide Multi registry
func UnregisterMultiInterceptor(interceptor *MultiInterceptor) bool {
	return multiInterceptors.Unregister(interceptor)
}

// ClearMultiInterceptors empties the process-wide Multi registry
func ClearMultiInterceptors() {
	multiInterceptors.Clear()
}

// MultiInterceptors lists the registered Multi interceptors in application order
func MultiInterceptors() []*MultiInterceptor {
	return multiInterceptors.List()
}

// ClearInterceptors empties both process-wide registries
func ClearInterceptors() {
	ClearUniInterceptors()
	ClearMultiInterceptors()
}

// OnUniCreation threads a newly constructed Uni through every creation hook, left to right
func OnUniCreation(uni Uni) Uni {
	for _, interceptor := range uniInterceptors.List() {
		if interceptor.OnCreation != nil {
			uni = interceptor.OnCreation(uni)
		}
	}
	return uni
}

// OnMultiCreation threads a newly constructed Multi through every creation hook, left to right
func OnMultiCreation(multi Multi) Multi {
	for _, interceptor := range multiInterceptors.List() {
		if interceptor.OnCreation != nil {
			multi = interceptor.OnCreation(multi)
		}
	}
	return multi
}

// OnUniSubscription threads subscriber through every subscription hook, left to right
func OnUniSubscription(uni Uni, subscriber UniSubscriber) UniSubscriber {
	for _, interceptor := range uniInterceptors.List() {
		if interceptor.OnSubscription != nil {
			subscriber = interceptor.OnSubscription(uni, subscriber)
		}
	}
	return subscriber
}

// OnMultiSubscription threads subscriber through every subscription hook, left to right
func OnMultiSubscription(multi Multi, subscriber MultiSubscriber) MultiSubscriber {
	for _, interceptor := range multiInterceptors.List() {
		if interceptor.OnSubscription != nil {
			subscriber = interceptor.OnSubscription(multi, subscriber)
		}
	}
	return subscriber
}

// SubscribeUni attaches subscriber to uni: the subscription hooks decorate
// it, the Protocol Guard wraps the result, and the guard is handed to the
// raw Subscribe of uni.
func SubscribeUni(uni Uni, subscriber UniSubscriber) {
	if subscriber == nil {
		panic(ErrNilSubscriber)
	}
	uni.Subscribe(NewStrictUniSubscriber(OnUniSubscription(uni, subscriber)))
}

// SubscribeMulti attaches subscriber to multi: the subscription hooks
// decorate it, the Protocol Guard wraps the result, and the guard is handed
// to the raw Subscribe of multi.
func SubscribeMulti(multi Multi, subscriber MultiSubscriber) {
	if subscriber == nil {
		panic(ErrNilSubscriber)
	}
	multi.Subscribe(NewStrictMultiSubscriber(OnMultiSubscription(multi, subscriber)))
}
