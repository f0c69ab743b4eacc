package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RecentIsBoundedPerSession(t *testing.T) {
	h := NewHub(2)
	h.Publish("a", LevelInfo, "one", "")
	h.Publish("a", LevelInfo, "two", "")
	h.Publish("a", LevelError, "three", "boom")
	h.Publish("b", LevelSuccess, "other", "")

	got := h.Recent("a")
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Title)
	assert.Equal(t, "three", got[1].Title)
	assert.NotEmpty(t, got[1].ID)
	assert.Len(t, h.Recent("b"), 1)
}

func TestHub_SubscribeReceivesOwnSessionOnly(t *testing.T) {
	h := NewHub(10)
	ch, cancel := h.Subscribe("a")
	defer cancel()

	h.Publish("b", LevelInfo, "not mine", "")
	h.ForSession("a").Notify(LevelSuccess, "Success", "Application verified")

	select {
	case n := <-ch:
		assert.Equal(t, "Success", n.Title)
		assert.Equal(t, LevelSuccess, n.Level)
	case <-time.After(time.Second):
		t.Fatal("no notification delivered")
	}
}

func TestHub_CancelClosesChannelOnce(t *testing.T) {
	h := NewHub(10)
	ch, cancel := h.Subscribe("a")
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	h.Publish("a", LevelInfo, "after", "")
}

func TestHub_ForgetDisconnects(t *testing.T) {
	h := NewHub(10)
	ch, cancel := h.Subscribe("a")
	h.Publish("a", LevelInfo, "x", "")
	<-ch

	h.Forget("a")
	_, open := <-ch
	assert.False(t, open)
	assert.Empty(t, h.Recent("a"))
	cancel()
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(100)
	_, cancel := h.Subscribe("a")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			h.Publish("a", LevelInfo, "spam", "")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(LevelError, "Error", "Session expired")
	n, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, LevelError, n.Level)
	assert.Len(t, r.All(), 1)
}
