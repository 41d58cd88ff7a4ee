package observe_test

import (
	"testing"

	"github.com/retailcloud/storefront-client/observe"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesCurrentValue(t *testing.T) {
	v := observe.NewValue(7)

	var got int
	v.Subscribe(func(n int) { got = n })

	require.Equal(t, 7, got)
}

func TestAllSubscribersSeeTheSameValue(t *testing.T) {
	v := observe.NewValue(0)

	var badge, summary int
	v.Subscribe(func(n int) { badge = n })
	v.Subscribe(func(n int) { summary = n })

	v.Set(3)

	require.Equal(t, 3, badge)
	require.Equal(t, 3, summary)
	require.Equal(t, 3, v.Get())
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	v := observe.NewValue(0)

	var calls int
	unsubscribe := v.Subscribe(func(int) { calls++ })
	require.Equal(t, 1, calls)

	unsubscribe()
	v.Set(5)

	require.Equal(t, 1, calls)
	require.Equal(t, 5, v.Get())

	// Double unsubscribe is a no-op.
	unsubscribe()
}
