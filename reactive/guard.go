package reactive

import "sync"

// attachment state shared by both guards
type guardState int

const (
	stateIdle guardState = iota
	stateSubscribing
	stateSubscribed
	stateTerminal
)

func (s guardState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateSubscribing:
		return "subscribing"
	case stateSubscribed:
		return "subscribed"
	case stateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

type uniSignal struct {
	item    any
	err     error
	failure bool
}

// StrictUniSubscriber is the Protocol Guard for Uni subscribers. It delivers
// at most one OnSubscribe and one terminal signal to the wrapped subscriber,
// never overlaps them, and turns null items or failures into a
// *ProtocolViolationError.
type StrictUniSubscriber struct {
	downstream UniSubscriber

	mu       sync.Mutex
	state    guardState
	upstream UniSubscription
	pending  *uniSignal
}

// NewStrictUniSubscriber wraps downstream in a Protocol Guard. Wrapping a
// guard returns it unchanged.
func NewStrictUniSubscriber(downstream UniSubscriber) *StrictUniSubscriber {
	if s, ok := downstream.(*StrictUniSubscriber); ok {
		return s
	}
	return &StrictUniSubscriber{downstream: downstream}
}

// OnSubscribe implements UniSubscriber
func (g *StrictUniSubscriber) OnSubscribe(subscription UniSubscription) {
	if subscription == nil {
		g.terminate(uniSignal{failure: true, err: violation("onSubscribe", ErrNullSubscription)})
		return
	}

	g.mu.Lock()
	if g.state != stateIdle {
		state := g.state
		g.mu.Unlock()
		subscription.Cancel()
		logger().Debug("dropping duplicate onSubscribe", "state", state.String())
		return
	}
	g.state = stateSubscribing
	g.upstream = subscription
	g.mu.Unlock()

	returned := false
	defer func() {
		g.mu.Lock()
		if g.state == stateSubscribing {
			g.state = stateSubscribed
		}
		pending := g.pending
		g.pending = nil
		g.mu.Unlock()

		if returned && pending != nil {
			g.deliver(*pending)
		}
	}()

	g.downstream.OnSubscribe(g)
	returned = true
}

// OnItem implements UniSubscriber
func (g *StrictUniSubscriber) OnItem(item any) {
	if isNull(item) {
		g.terminate(uniSignal{failure: true, err: violation("onItem", ErrNullItem)})
		return
	}
	g.terminate(uniSignal{item: item})
}

// OnFailure implements UniSubscriber
func (g *StrictUniSubscriber) OnFailure(err error) {
	if isNull(err) {
		g.terminate(uniSignal{failure: true, err: violation("onFailure", ErrNullFailure)})
		return
	}
	g.terminate(uniSignal{failure: true, err: err})
}

// Cancel implements UniSubscription for the downstream subscriber
func (g *StrictUniSubscriber) Cancel() {
	g.mu.Lock()
	if g.state == stateTerminal {
		g.mu.Unlock()
		return
	}
	g.state = stateTerminal
	g.pending = nil
	upstream := g.upstream
	g.mu.Unlock()

	if upstream != nil {
		upstream.Cancel()
	}
}

// IsTerminated reports whether a terminal signal or cancellation has been accepted
func (g *StrictUniSubscriber) IsTerminated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == stateTerminal
}

func (g *StrictUniSubscriber) terminate(signal uniSignal) {
	g.mu.Lock()
	switch g.state {
	case stateTerminal:
		g.mu.Unlock()
		logger().Debug("dropping signal after terminal", "failure", signal.failure)
		return
	case stateSubscribing:
		// delivered by OnSubscribe once the downstream returns
		g.state = stateTerminal
		g.pending = &signal
		g.mu.Unlock()
		return
	case stateIdle:
		g.state = stateTerminal
		g.mu.Unlock()
		g.downstream.OnSubscribe(EmptySubscription)
		g.deliver(signal)
		return
	default:
		g.state = stateTerminal
		g.mu.Unlock()
		g.deliver(signal)
	}
}

func (g *StrictUniSubscriber) deliver(signal uniSignal) {
	if signal.failure {
		g.downstream.OnFailure(signal.err)
		return
	}
	g.downstream.OnItem(signal.item)
}
