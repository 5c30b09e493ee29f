package reactive

import "sync"

type multiSignalKind int

const (
	signalSubscribe multiSignalKind = iota
	signalNext
	signalError
	signalComplete
)

func (k multiSignalKind) String() string {
	switch k {
	case signalSubscribe:
		return "onSubscribe"
	case signalNext:
		return "onNext"
	case signalError:
		return "onError"
	case signalComplete:
		return "onComplete"
	default:
		return "unknown"
	}
}

type multiSignal struct {
	kind multiSignalKind
	item any
	err  error
}

func (s multiSignal) terminal() bool {
	return s.kind == signalError || s.kind == signalComplete
}

// StrictMultiSubscriber is the Protocol Guard for Multi subscribers.
//
// Signals arriving from any number of goroutines are serialized with a
// queue-and-drain discipline: the goroutine that finds the guard idle becomes
// the emitter and delivers every queued signal before it returns, while
// goroutines arriving during a delivery enqueue their signal and return
// immediately. The wrapped subscriber sees at most one OnSubscribe, then
// OnNext signals, then at most one terminal signal, one at a time and in
// arrival order.
type StrictMultiSubscriber struct {
	downstream MultiSubscriber

	mu         sync.Mutex
	subscribed bool
	done       bool
	emitting   bool
	queue      []multiSignal
	upstream   Subscription
	cancelOnce sync.Once
}

// NewStrictMultiSubscriber wraps downstream in a Protocol Guard. Wrapping a
// guard returns it unchanged.
func NewStrictMultiSubscriber(downstream MultiSubscriber) *StrictMultiSubscriber {
	if s, ok := downstream.(*StrictMultiSubscriber); ok {
		return s
	}
	return &StrictMultiSubscriber{downstream: downstream}
}

// OnSubscribe implements MultiSubscriber
func (g *StrictMultiSubscriber) OnSubscribe(subscription Subscription) {
	if subscription == nil {
		g.signal(multiSignal{kind: signalError, err: violation("onSubscribe", ErrNullSubscription)})
		return
	}

	g.mu.Lock()
	if g.subscribed || g.done {
		g.mu.Unlock()
		subscription.Cancel()
		logger().Debug("dropping duplicate onSubscribe")
		return
	}
	g.subscribed = true
	g.upstream = subscription
	g.queue = append(g.queue, multiSignal{kind: signalSubscribe})
	g.emitOrReturn()
}

// OnNext implements MultiSubscriber
func (g *StrictMultiSubscriber) OnNext(item any) {
	if isNull(item) {
		g.cancelUpstream()
		g.signal(multiSignal{kind: signalError, err: violation("onNext", ErrNullItem)})
		return
	}
	g.signal(multiSignal{kind: signalNext, item: item})
}

// OnError implements MultiSubscriber
func (g *StrictMultiSubscriber) OnError(err error) {
	if isNull(err) {
		g.signal(multiSignal{kind: signalError, err: violation("onError", ErrNullFailure)})
		return
	}
	g.signal(multiSignal{kind: signalError, err: err})
}

// OnComplete implements MultiSubscriber
func (g *StrictMultiSubscriber) OnComplete() {
	g.signal(multiSignal{kind: signalComplete})
}

// Request implements Subscription for the downstream subscriber
func (g *StrictMultiSubscriber) Request(n int64) {
	if n <= 0 {
		g.cancelUpstream()
		g.signal(multiSignal{kind: signalError, err: violation("request", ErrInvalidRequest)})
		return
	}

	g.mu.Lock()
	upstream := g.upstream
	done := g.done
	g.mu.Unlock()

	if upstream != nil && !done {
		upstream.Request(n)
	}
}

// Cancel implements Subscription for the downstream subscriber. Signals still
// queued are discarded; a delivery already in flight completes.
func (g *StrictMultiSubscriber) Cancel() {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		return
	}
	g.done = true
	g.queue = nil
	g.mu.Unlock()

	g.cancelUpstream()
}

// IsTerminated reports whether a terminal signal or cancellation has been accepted
func (g *StrictMultiSubscriber) IsTerminated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}

func (g *StrictMultiSubscriber) cancelUpstream() {
	g.mu.Lock()
	upstream := g.upstream
	g.mu.Unlock()

	if upstream == nil {
		return
	}
	g.cancelOnce.Do(upstream.Cancel)
}

func (g *StrictMultiSubscriber) signal(s multiSignal) {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		logger().Debug("dropping signal after terminal", "signal", s.kind.String())
		return
	}

	if !g.subscribed {
		g.subscribed = true
		g.queue = append(g.queue, multiSignal{kind: signalSubscribe})
		if s.kind == signalNext {
			s = multiSignal{kind: signalError, err: violation("onNext", ErrSignalBeforeSubscribe)}
		}
	}

	if s.terminal() {
		g.done = true
	}
	g.queue = append(g.queue, s)
	g.emitOrReturn()
}

// emitOrReturn must be called with mu held; it releases it
func (g *StrictMultiSubscriber) emitOrReturn() {
	if g.emitting {
		g.mu.Unlock()
		return
	}
	g.emitting = true
	g.mu.Unlock()

	g.drain()
}

func (g *StrictMultiSubscriber) drain() {
	finished := false
	defer func() {
		if !finished {
			// downstream panicked; signals queued by other producers are still
			// owed to it, so keep draining before the panic propagates
			r := recover()
			g.drain()
			panic(r)
		}
	}()

	for {
		g.mu.Lock()
		if len(g.queue) == 0 {
			g.emitting = false
			g.mu.Unlock()
			finished = true
			return
		}
		next := g.queue[0]
		g.queue[0] = multiSignal{}
		g.queue = g.queue[1:]
		g.mu.Unlock()

		g.deliver(next)
	}
}

func (g *StrictMultiSubscriber) deliver(s multiSignal) {
	switch s.kind {
	case signalSubscribe:
		g.downstream.OnSubscribe(g)
	case signalNext:
		g.downstream.OnNext(s.item)
	case signalError:
		g.downstream.OnError(s.err)
	case signalComplete:
		g.downstream.OnComplete()
	}
}
