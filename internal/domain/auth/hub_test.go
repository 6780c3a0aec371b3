package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	ch1, cancel1 := h.Subscribe()
	ch2, cancel2 := h.Subscribe()
	defer cancel1()
	defer cancel2()

	h.Publish(Change{Kind: SessionStarted, UserID: "u-1"})

	for _, ch := range []<-chan Change{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, SessionStarted, got.Kind)
			assert.Equal(t, "u-1", string(got.UserID))
		default:
			t.Fatal("expected buffered notification")
		}
	}
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	cancel()

	// Publishing after cancel must not panic or deliver.
	h.Publish(Change{Kind: SessionEnded, UserID: "u-1"})

	_, open := <-ch
	require.False(t, open, "channel should be closed after cancel")
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe()
	defer cancel()

	// More publishes than the buffer holds; the excess is dropped.
	for i := 0; i < 100; i++ {
		h.Publish(Change{Kind: SessionStarted, UserID: "u-1"})
	}
}
