package contextprop_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glimte/mmate-rx/contextprop"
	"github.com/glimte/mmate-rx/reactive"
	"github.com/glimte/mmate-rx/threadcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiRestoreBalance(t *testing.T) {
	clearRegistries(t)
	counting := threadcontext.Counting(threadcontext.NewSlot("principal", "").Service())
	reactive.RegisterMultiInterceptor(contextprop.NewMultiInterceptor(counting, contextprop.WithCreationHook(false)))

	var active []int64
	done := make(chan struct{})
	reactive.SubscribeMulti(reactive.MultiFromItems(1, 2, 3, 4, 5), reactive.MultiSubscriberFuncs{
		OnSubscribeFunc: func(s reactive.Subscription) { s.Request(5) },
		OnNextFunc: func(any) {
			active = append(active, counting.Applies()-counting.Restores())
		},
		OnCompleteFunc: func() { close(done) },
	})
	<-done

	assert.Equal(t, []int64{1, 1, 1, 1, 1}, active)
	// onSubscribe, five items and onComplete
	assert.Equal(t, int64(7), counting.Applies())
	assert.True(t, counting.Balanced())
}

func TestMultiContextIsolation(t *testing.T) {
	clearRegistries(t)
	principal := threadcontext.NewSlot("principal", "")
	reactive.RegisterMultiInterceptor(contextprop.NewMultiInterceptor(principal.Service(),
		contextprop.WithSubscriptionHook(false),
	))

	principal.Set("alice")
	forAlice := reactive.MultiFromItems(1, 2)
	principal.Set("bob")
	forBob := reactive.MultiFromItems(3)
	principal.Set("carol")

	seen := map[any]string{}
	consumer := reactive.MultiSubscriberFuncs{
		OnSubscribeFunc: func(s reactive.Subscription) { s.Request(10) },
		OnNextFunc:      func(item any) { seen[item] = principal.Get() },
	}
	reactive.SubscribeMulti(forAlice, consumer)
	reactive.SubscribeMulti(forBob, consumer)

	assert.Equal(t, map[any]string{1: "alice", 2: "alice", 3: "bob"}, seen)
	assert.Equal(t, "carol", principal.Get())
}

func TestMultiAsyncDelivery(t *testing.T) {
	clearRegistries(t)
	principal := threadcontext.NewSlot("principal", "")
	counting := threadcontext.Counting(principal.Service())
	contextprop.Register(counting, contextprop.WithCreationHook(false))

	source := make(chan string)
	multi := reactive.MultiFromChannel(context.Background(), source)

	var mu sync.Mutex
	var seen []string
	done := make(chan struct{})

	principal.Set("alice")
	reactive.SubscribeMulti(multi, reactive.MultiSubscriberFuncs{
		OnSubscribeFunc: func(s reactive.Subscription) { s.Request(10) },
		OnNextFunc: func(item any) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, item.(string)+"@"+principal.Get())
		},
		OnCompleteFunc: func() { close(done) },
	})
	principal.Set("")

	source <- "first"
	source <- "second"
	close(source)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("multi did not complete")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first@alice", "second@alice"}, seen)

	// the pump goroutine restores after OnComplete returns
	assert.Eventually(t, func() bool {
		return counting.Balanced() && principal.Get() == ""
	}, time.Second, 10*time.Millisecond)
}

func TestMultiCancelReachesUpstream(t *testing.T) {
	clearRegistries(t)
	contextprop.Register(threadcontext.NewSlot("principal", "").Service())

	cancelled := make(chan struct{})
	multi := reactive.MultiFromEmitter(func(emitter reactive.MultiEmitter) {
		emitter.OnCancellation(func() { close(cancelled) })
	})

	var subscription reactive.Subscription
	reactive.SubscribeMulti(multi, reactive.MultiSubscriberFuncs{
		OnSubscribeFunc: func(s reactive.Subscription) { subscription = s },
	})
	require.NotNil(t, subscription)
	subscription.Cancel()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("cancel was not forwarded")
	}
}

func TestMultiRestoreOnPanic(t *testing.T) {
	principal := threadcontext.NewSlot("principal", "subscriber")
	counting := threadcontext.Counting(principal.Service())

	decorated := contextprop.NewPropagatingMultiSubscriber(counting, reactive.MultiSubscriberFuncs{
		OnErrorFunc: func(error) { panic("consumer failed") },
	})
	principal.Set("elsewhere")

	assert.Panics(t, func() {
		decorated.OnError(assert.AnError)
	})
	assert.Equal(t, "elsewhere", principal.Get())
	assert.True(t, counting.Balanced())
}
