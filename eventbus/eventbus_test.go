package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribePublish(t *testing.T) {
	b := New()
	var received NodeEvent
	calls := 0
	b.Subscribe(EventNodeClick, func(payload any) {
		calls++
		received = payload.(NodeEvent)
	})

	b.Publish(EventNodeClick, NodeEvent{NodeID: "n1", X: 1, Y: 2})
	require.Equal(t, 1, calls)
	assert.Equal(t, "n1", received.NodeID)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	unsubscribe := b.Subscribe(EventSimulationTick, func(payload any) { calls++ })
	unsubscribe()

	b.Publish(EventSimulationTick, SimulationTickEvent{Tick: 1})
	assert.Equal(t, 0, calls)
}

func TestPanicInSubscriberDoesNotStopOthers(t *testing.T) {
	b := New()
	secondCalled := false
	b.Subscribe(EventNodeClick, func(payload any) { panic("boom") })
	b.Subscribe(EventNodeClick, func(payload any) { secondCalled = true })

	assert.NotPanics(t, func() {
		b.Publish(EventNodeClick, NodeEvent{NodeID: "n1"})
	})
	assert.True(t, secondCalled)
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() {
		b.Publish(EventViewportChange, ViewportChangeEvent{Scale: 1})
	})
}
