package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishReachesRoomSubscribersOnly(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := h.Subscribe("room-a")
	b := h.Subscribe("room-a")
	other := h.Subscribe("room-b")

	h.Publish("room-a", EventTimer, "00:42")

	for _, ch := range []chan Event{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventTimer, ev.Type)
			assert.Equal(t, "room-a", ev.Room)
			assert.Equal(t, "00:42", ev.Data)
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}
	select {
	case <-other:
		t.Fatal("event leaked across rooms")
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(zap.NewNop())
	ch := h.Subscribe("room")
	require.Equal(t, 1, h.Subscribers("room"))

	h.Unsubscribe("room", ch)
	assert.Equal(t, 0, h.Subscribers("room"))
	_, open := <-ch
	assert.False(t, open)

	// Double unsubscribe is harmless.
	h.Unsubscribe("room", ch)
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	h := NewHub(zap.NewNop())
	ch := h.Subscribe("room")

	// Fill the buffer, then one more: the subscriber must be evicted
	// instead of stalling the publisher.
	for i := 0; i < cap(ch)+1; i++ {
		h.Publish("room", EventTimer, i)
	}
	assert.Equal(t, 0, h.Subscribers("room"))

	// Buffered events drain, then the channel reports closed.
	n := 0
	for range ch {
		n++
	}
	assert.Equal(t, cap(ch), n)
}

func TestDropRoom(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := h.Subscribe("room")
	b := h.Subscribe("room")

	h.DropRoom("room")
	assert.Equal(t, 0, h.Subscribers("room"))
	for _, ch := range []chan Event{a, b} {
		_, open := <-ch
		assert.False(t, open)
	}

	// Publishing to a dropped room is a no-op.
	h.Publish("room", EventTimer, nil)
}
