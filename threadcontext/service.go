package threadcontext

import "sync/atomic"

// Snapshot is an immutable capture of ambient context. Only the service that
// produced it can interpret it.
type Snapshot interface{}

// Displaced is the state a snapshot replaced when it was applied.
type Displaced interface{}

// Service captures, applies and restores ambient context
type Service interface {
	// Capture records the ambient context in effect right now
	Capture() Snapshot

	// Apply installs snapshot as the ambient context and returns what it replaced
	Apply(snapshot Snapshot) Displaced

	// Restore reinstates the state displaced by the matching Apply
	Restore(snapshot Snapshot, displaced Displaced)
}

// ServiceFuncs is a function adapter for Service
type ServiceFuncs struct {
	CaptureFunc func() Snapshot
	ApplyFunc   func(Snapshot) Displaced
	RestoreFunc func(Snapshot, Displaced)
}

// Capture implements Service
func (f ServiceFuncs) Capture() Snapshot {
	if f.CaptureFunc == nil {
		return nil
	}
	return f.CaptureFunc()
}

// Apply implements Service
func (f ServiceFuncs) Apply(snapshot Snapshot) Displaced {
	if f.ApplyFunc == nil {
		return nil
	}
	return f.ApplyFunc(snapshot)
}

// Restore implements Service
func (f ServiceFuncs) Restore(snapshot Snapshot, displaced Displaced) {
	if f.RestoreFunc != nil {
		f.RestoreFunc(snapshot, displaced)
	}
}

// Nop is a Service that propagates nothing
var Nop Service = ServiceFuncs{}

type compositeSnapshot []Snapshot

type compositeDisplaced []Displaced

type composite struct {
	services []Service
}

// Compose returns a Service driving several services as one. Apply runs in
// the given order and Restore in reverse, so the applications nest.
func Compose(services ...Service) Service {
	flat := make([]Service, 0, len(services))
	for _, svc := range services {
		if svc == nil {
			continue
		}
		if c, ok := svc.(*composite); ok {
			flat = append(flat, c.services...)
			continue
		}
		flat = append(flat, svc)
	}
	return &composite{services: flat}
}

func (c *composite) Capture() Snapshot {
	snapshot := make(compositeSnapshot, len(c.services))
	for i, svc := range c.services {
		snapshot[i] = svc.Capture()
	}
	return snapshot
}

func (c *composite) Apply(snapshot Snapshot) Displaced {
	snap, ok := snapshot.(compositeSnapshot)
	if !ok {
		fail("apply", "", ErrForeignSnapshot)
	}
	if len(snap) != len(c.services) {
		fail("apply", "", ErrSnapshotMismatch)
	}
	displaced := make(compositeDisplaced, 0, len(c.services))
	for i, svc := range c.services {
		displaced = append(displaced, svc.Apply(snap[i]))
	}
	return displaced
}

func (c *composite) Restore(snapshot Snapshot, displaced Displaced) {
	snap, ok := snapshot.(compositeSnapshot)
	if !ok {
		fail("restore", "", ErrForeignSnapshot)
	}
	moved, ok := displaced.(compositeDisplaced)
	if !ok {
		fail("restore", "", ErrForeignDisplaced)
	}
	if len(snap) != len(c.services) || len(moved) != len(c.services) {
		fail("restore", "", ErrSnapshotMismatch)
	}
	for i := len(c.services) - 1; i >= 0; i-- {
		c.services[i].Restore(snap[i], moved[i])
	}
}

// CountingService wraps a Service and counts apply and restore calls
type CountingService struct {
	inner    Service
	captures atomic.Int64
	applies  atomic.Int64
	restores atomic.Int64
}

// Counting wraps svc in a CountingService
func Counting(svc Service) *CountingService {
	if svc == nil {
		svc = Nop
	}
	return &CountingService{inner: svc}
}

// Capture implements Service
func (c *CountingService) Capture() Snapshot {
	c.captures.Add(1)
	return c.inner.Capture()
}

// Apply implements Service
func (c *CountingService) Apply(snapshot Snapshot) Displaced {
	c.applies.Add(1)
	return c.inner.Apply(snapshot)
}

// Restore implements Service
func (c *CountingService) Restore(snapshot Snapshot, displaced Displaced) {
	c.inner.Restore(snapshot, displaced)
	c.restores.Add(1)
}

// Captures returns the number of Capture calls
func (c *CountingService) Captures() int64 {
	return c.captures.Load()
}

// Applies returns the number of Apply calls
func (c *CountingService) Applies() int64 {
	return c.applies.Load()
}

// Restores returns the number of completed Restore calls
func (c *CountingService) Restores() int64 {
	return c.restores.Load()
}

// Balanced reports whether every Apply has been restored
func (c *CountingService) Balanced() bool {
	return c.applies.Load() == c.restores.Load()
}
