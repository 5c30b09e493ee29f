package reactive

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// Recording subscribers used across the package tests

type uniRecorder struct {
	mu           sync.Mutex
	signals      []string
	items        []any
	failures     []error
	subscription UniSubscription
}

func (r *uniRecorder) OnSubscribe(subscription UniSubscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscription = subscription
	r.signals = append(r.signals, "subscribe")
}

func (r *uniRecorder) OnItem(item any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	r.signals = append(r.signals, fmt.Sprintf("item:%v", item))
}

func (r *uniRecorder) OnFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, err)
	r.signals = append(r.signals, "failure")
}

func (r *uniRecorder) Signals() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.signals...)
}

type multiRecorder struct {
	mu           sync.Mutex
	signals      []string
	items        []any
	errs         []error
	subscription Subscription
	request      int64
}

func newMultiRecorder(request int64) *multiRecorder {
	return &multiRecorder{request: request}
}

func (r *multiRecorder) OnSubscribe(subscription Subscription) {
	r.mu.Lock()
	r.subscription = subscription
	r.signals = append(r.signals, "subscribe")
	request := r.request
	r.mu.Unlock()

	if request > 0 {
		subscription.Request(request)
	}
}

func (r *multiRecorder) OnNext(item any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	r.signals = append(r.signals, fmt.Sprintf("next:%v", item))
}

func (r *multiRecorder) OnError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
	r.signals = append(r.signals, "error")
}

func (r *multiRecorder) OnComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, "complete")
}

func (r *multiRecorder) Signals() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.signals...)
}

func (r *multiRecorder) Subscription() Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscription
}

type fakeSubscription struct {
	cancelled atomic.Int32
	requested atomic.Int64
}

func (s *fakeSubscription) Cancel() {
	s.cancelled.Add(1)
}

func (s *fakeSubscription) Request(n int64) {
	s.requested.Add(n)
}

func clearRegistries(t *testing.T) {
	t.Helper()
	ClearInterceptors()
	t.Cleanup(ClearInterceptors)
}
