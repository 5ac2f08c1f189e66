package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func next(t *testing.T, messages <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg, ok := <-messages:
		require.True(t, ok, "message stream closed")
		return msg
	case <-time.After(waitFor):
		require.FailNow(t, "timed out waiting for a message")
		return nil
	}
}

func topic(t *testing.T, name string) (IPublisher, ISubscriber) {
	t.Helper()
	channel := NewMemoryChannel()
	publisher := NewMemoryPublisher(channel, name)
	t.Cleanup(func() { _ = publisher.Close() })
	return publisher, NewMemorySubscriber(channel, name)
}

func TestMemoryTopic(t *testing.T) {
	t.Run("should deliver every published activity event", func(t *testing.T) {
		publisher, subscriber := topic(t, "activity")
		stream := subscriber.Subscribe(context.Background())

		payloads := []string{`{"action":"create"}`, `{"action":"update"}`, `{"action":"delete"}`}
		for _, payload := range payloads {
			require.NoError(t, publisher.Publish(message.NewMessage(watermill.NewUUID(), []byte(payload))))
		}

		// Fan-out to subscribers is concurrent, so arrival order is not fixed.
		received := make([]string, 0, len(payloads))
		for range payloads {
			msg := next(t, stream)
			received = append(received, string(msg.Payload))
			msg.Ack()
		}
		assert.ElementsMatch(t, payloads, received)
	})

	t.Run("should keep topics on separate channels apart", func(t *testing.T) {
		activityPub, activitySub := topic(t, "activity")
		_, otherSub := topic(t, "other")

		activityStream := activitySub.Subscribe(context.Background())
		otherStream := otherSub.Subscribe(context.Background())

		id := watermill.NewUUID()
		require.NoError(t, activityPub.Publish(message.NewMessage(id, []byte("{}"))))

		msg := next(t, activityStream)
		assert.Equal(t, id, msg.UUID)
		msg.Ack()

		select {
		case unexpected := <-otherStream:
			assert.Failf(t, "unexpected delivery", "got %s on the other topic", unexpected.UUID)
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("should close the stream when the context ends", func(t *testing.T) {
		_, subscriber := topic(t, "activity")
		ctx, cancel := context.WithCancel(context.Background())
		stream := subscriber.Subscribe(ctx)
		require.NotNil(t, stream)

		cancel()

		select {
		case _, ok := <-stream:
			assert.False(t, ok)
		case <-time.After(waitFor):
			assert.Fail(t, "stream was not closed")
		}
	})

	t.Run("should refuse to publish after close", func(t *testing.T) {
		channel := NewMemoryChannel()
		publisher := NewMemoryPublisher(channel, "activity")
		require.NoError(t, publisher.Close())

		assert.Error(t, publisher.Publish(message.NewMessage(watermill.NewUUID(), nil)))
	})

	t.Run("should return no stream once the subscriber is closed", func(t *testing.T) {
		_, subscriber := topic(t, "activity")
		require.NoError(t, subscriber.Close())

		assert.Nil(t, subscriber.Subscribe(context.Background()))
	})
}
