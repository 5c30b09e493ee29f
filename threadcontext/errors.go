package threadcontext

import (
	"errors"
	"fmt"
)

var (
	// ErrForeignSnapshot is raised when a snapshot is applied to a service that did not capture it
	ErrForeignSnapshot = errors.New("threadcontext: snapshot was not captured by this service")
	// ErrForeignDisplaced is raised when a displaced value is restored to a service that did not produce it
	ErrForeignDisplaced = errors.New("threadcontext: displaced value was not produced by this service")
	// ErrSnapshotMismatch is raised when a composite snapshot has the wrong arity
	ErrSnapshotMismatch = errors.New("threadcontext: composite snapshot does not match services")
)

// ServiceError is the fatal configuration error raised by a misused service
type ServiceError struct {
	Op      string // capture, apply or restore
	Service string // name of the slot or bag
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("threadcontext: %s on %q failed: %v", e.Op, e.Service, e.Err)
	}
	return fmt.Sprintf("threadcontext: %s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func fail(op, service string, err error) {
	panic(&ServiceError{Op: op, Service: service, Err: err})
}
