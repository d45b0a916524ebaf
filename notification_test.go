package messageboard_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/messageboard"
	"github.com/coregx/messageboard/model"
)

func TestHub_PublishDeliversToAllSubscribers(t *testing.T) {
	hub := messageboard.NewHub(&messageboard.NoopLogger{})

	a, cancelA := hub.Subscribe(4)
	defer cancelA()
	b, cancelB := hub.Subscribe(4)
	defer cancelB()

	assert.Equal(t, 2, hub.Subscribers())

	msg := model.NewMessage("hello", 100, 200)
	hub.Publish(model.NewMessageEvent(model.EventMessageActivated, msg, time.Unix(150, 0)))

	for _, ch := range []<-chan model.Event{a, b} {
		select {
		case evt := <-ch:
			assert.Equal(t, model.EventMessageActivated, evt.Kind)
			assert.Equal(t, msg.UUID, evt.UUID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestHub_FIFOPerSubscriber(t *testing.T) {
	hub := messageboard.NewHub(&messageboard.NoopLogger{})

	events, cancel := hub.Subscribe(16)
	defer cancel()

	for i := 0; i < 5; i++ {
		msg := model.Message{UUID: fmt.Sprintf("uuid-%d", i), Text: "m", Start: 0, End: 1}
		hub.Publish(model.NewMessageEvent(model.EventMessageActivated, msg, time.Unix(int64(i), 0)))
	}

	for i := 0; i < 5; i++ {
		evt := <-events
		assert.Equal(t, fmt.Sprintf("uuid-%d", i), evt.UUID)
	}
}

func TestHub_SlowSubscriberDropsWithoutBlocking(t *testing.T) {
	hub := messageboard.NewHub(&messageboard.NoopLogger{})

	// Buffer of 1 with nobody reading.
	_, cancel := hub.Subscribe(1)
	defer cancel()

	msg := model.NewMessage("hello", 100, 200)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Publish(model.NewMessageEvent(model.EventMessageActivated, msg, time.Unix(150, 0)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	assert.Equal(t, uint64(9), hub.Dropped())
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := messageboard.NewHub(&messageboard.NoopLogger{})

	events, cancel := hub.Subscribe(4)
	assert.Equal(t, 1, hub.Subscribers())

	cancel()
	assert.Equal(t, 0, hub.Subscribers())

	// Channel is closed after cancel.
	_, ok := <-events
	assert.False(t, ok)

	// Cancel is safe to call twice.
	cancel()

	// Publishing after unsubscribe delivers to nobody and does not panic.
	hub.Publish(model.NewConfigEvent(model.EventBoardStatus, model.DefaultBoardConfig(), time.Unix(150, 0)))
}

func TestHub_PublishStampsMissingTimestamp(t *testing.T) {
	hub := messageboard.NewHub(&messageboard.NoopLogger{})

	events, cancel := hub.Subscribe(1)
	defer cancel()

	hub.Publish(model.Event{Kind: model.EventBoardStatus, Config: &model.BoardConfig{}})

	evt := <-events
	require.False(t, evt.At.IsZero())
	assert.WithinDuration(t, time.Now(), evt.At, time.Second)
}

func TestHub_DefaultBuffer(t *testing.T) {
	hub := messageboard.NewHub(nil)

	_, cancel := hub.Subscribe(0)
	defer cancel()

	// 16 publishes fit the default buffer without drops.
	msg := model.NewMessage("hello", 100, 200)
	for i := 0; i < 16; i++ {
		hub.Publish(model.NewMessageEvent(model.EventMessageActivated, msg, time.Unix(150, 0)))
	}
	assert.Equal(t, uint64(0), hub.Dropped())
}
