package reactive

import (
	"errors"
	"fmt"
)

var (
	// Protocol violations
	ErrNullItem              = errors.New("reactive: null item")
	ErrNullFailure           = errors.New("reactive: null failure")
	ErrNullSubscription      = errors.New("reactive: null subscription")
	ErrInvalidRequest        = errors.New("reactive: request must be positive")
	ErrSignalBeforeSubscribe = errors.New("reactive: item signalled before onSubscribe")

	// Usage errors
	ErrNilSubscriber  = errors.New("reactive: subscriber must not be nil")
	ErrUnexpectedItem = errors.New("reactive: unexpected item type")
)

// ProtocolViolationError is delivered to a subscriber in place of an illegal signal
type ProtocolViolationError struct {
	Signal string // signal that violated the protocol
	Err    error
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("reactive: protocol violation on %s: %v", e.Signal, e.Err)
}

func (e *ProtocolViolationError) Unwrap() error {
	return e.Err
}

// IsProtocolViolation checks if an error reports a protocol violation
func IsProtocolViolation(err error) bool {
	var pv *ProtocolViolationError
	return errors.As(err, &pv)
}

func violation(signal string, err error) error {
	return &ProtocolViolationError{Signal: signal, Err: err}
}
