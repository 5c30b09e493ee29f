package reactive

import (
	"sort"
	"sync"
	"sync/atomic"
)

type registryEntry[I comparable] struct {
	interceptor I
	ordinal     int
}

// Registry is an ordered, copy-on-write collection of interceptors. Entries
// are kept sorted by ascending ordinal; entries with equal ordinals keep
// their registration order. Writers serialize on a mutex and publish a new
// immutable snapshot; readers never lock.
type Registry[I comparable] struct {
	mu       sync.Mutex
	ordinal  func(I) int
	snapshot atomic.Pointer[[]registryEntry[I]]
}

// NewRegistry creates an empty registry ordering interceptors by ordinal
func NewRegistry[I comparable](ordinal func(I) int) *Registry[I] {
	r := &Registry[I]{ordinal: ordinal}
	empty := make([]registryEntry[I], 0)
	r.snapshot.Store(&empty)
	return r
}

// Register inserts interceptor after every entry whose ordinal is lower or equal
func (r *Registry[I]) Register(interceptor I) {
	ordinal := r.ordinal(interceptor)

	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.snapshot.Load()
	pos := sort.Search(len(current), func(i int) bool {
		return current[i].ordinal > ordinal
	})

	next := make([]registryEntry[I], 0, len(current)+1)
	next = append(next, current[:pos]...)
	next = append(next, registryEntry[I]{interceptor: interceptor, ordinal: ordinal})
	next = append(next, current[pos:]...)
	r.snapshot.Store(&next)
}

// Unregister removes the first entry holding interceptor and reports whether one was found
func (r *Registry[I]) Unregister(interceptor I) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.snapshot.Load()
	for i, e := range current {
		if e.interceptor != interceptor {
			continue
		}
		next := make([]registryEntry[I], 0, len(current)-1)
		next = append(next, current[:i]...)
		next = append(next, current[i+1:]...)
		r.snapshot.Store(&next)
		return true
	}
	return false
}

// Clear removes every interceptor
func (r *Registry[I]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	empty := make([]registryEntry[I], 0)
	r.snapshot.Store(&empty)
}

// List returns the interceptors in application order. The returned slice is
// a private copy and is not affected by later Register or Clear calls.
func (r *Registry[I]) List() []I {
	current := *r.snapshot.Load()
	out := make([]I, len(current))
	for i, e := range current {
		out[i] = e.interceptor
	}
	return out
}

// Len returns the number of registered interceptors
func (r *Registry[I]) Len() int {
	return len(*r.snapshot.Load())
}
