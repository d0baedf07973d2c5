package logout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopkit-dev/shopctl/logout"
)

func TestRaiseNotifiesInRegistrationOrder(t *testing.T) {
	sig := logout.NewSignal()
	var order []string
	sig.Subscribe(func() { order = append(order, "first") })
	sig.Subscribe(func() { order = append(order, "second") })
	sig.Subscribe(func() { order = append(order, "third") })

	sig.Raise()
	assert.Equal(t, []string{"first", "second", "third"}, order)

	sig.Raise()
	assert.Len(t, order, 6, "each raise notifies every subscriber once")
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	sig := logout.NewSignal()
	calls := 0
	unsubscribe := sig.Subscribe(func() { calls++ })

	sig.Raise()
	unsubscribe()
	sig.Raise()
	assert.Equal(t, 1, calls)

	unsubscribe() // second call is a no-op
	sig.Raise()
	assert.Equal(t, 1, calls)
}

func TestSubscriberMayUnsubscribeItself(t *testing.T) {
	sig := logout.NewSignal()
	calls := 0
	var unsubscribe func()
	unsubscribe = sig.Subscribe(func() {
		calls++
		unsubscribe()
	})

	sig.Raise()
	sig.Raise()
	assert.Equal(t, 1, calls)
}

func TestRaiseWithNoSubscribers(t *testing.T) {
	sig := logout.NewSignal()
	assert.NotPanics(t, func() { sig.Raise() })
}
