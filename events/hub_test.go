package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinizap/lumi/tasks/domain"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func receive(t *testing.T, sub *Subscription) (Message, bool) {
	t.Helper()
	select {
	case msg, ok := <-sub.C:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}, false
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	h, _ := startHub(t)
	a := h.Subscribe()
	b := h.Subscribe()

	task := &domain.Task{ID: "a", Title: "Buy milk"}
	h.Broadcast(TaskCreated, task)

	for _, sub := range []*Subscription{a, b} {
		msg, ok := receive(t, sub)
		require.True(t, ok)
		assert.Equal(t, TaskCreated, msg.Type)
		assert.Equal(t, "a", msg.Task.ID)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h, _ := startHub(t)
	sub := h.Subscribe()

	h.Unsubscribe(sub)
	_, ok := receive(t, sub)
	assert.False(t, ok)

	// A second unsubscribe is a no-op.
	h.Unsubscribe(sub)
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	// With an unqueued hub a Broadcast returns only once Run has taken the
	// message, so the trailing marker guarantees the earlier fan-outs are done.
	h := newHub(zerolog.Nop(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	slow := h.Subscribe()
	for i := 0; i < subscriberBuffer+1; i++ {
		h.Broadcast(TaskUpdated, nil)
	}
	h.Broadcast(TaskDeleted, nil)

	received := 0
	for {
		msg, ok := receive(t, slow)
		if !ok {
			break
		}
		assert.Equal(t, TaskUpdated, msg.Type)
		received++
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestStoppedHubClosesSubscribersAndDoesNotBlock(t *testing.T) {
	h, cancel := startHub(t)
	sub := h.Subscribe()

	cancel()
	_, ok := receive(t, sub)
	assert.False(t, ok)

	done := make(chan struct{})
	go func() {
		h.Broadcast(TaskDeleted, nil)
		late := h.Subscribe()
		_, ok := <-late.C
		assert.False(t, ok)
		h.Unsubscribe(late)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub calls blocked after stop")
	}
}
