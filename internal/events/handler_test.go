package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	c "dashboard/internal/cache"
	"dashboard/internal/messaging"
	"dashboard/internal/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu   sync.Mutex
	sent []models.Activity
	err  error
}

func (r *recordingLogger) Send(a models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, a)
	return nil
}

func (r *recordingLogger) Search(_ map[string][]string, _ int) ([]map[string]any, error) {
	return nil, nil
}

func (r *recordingLogger) CountByDay(_ map[string][]string, _ int) ([]models.TimeSeriesPoint, error) {
	return nil, nil
}

func (r *recordingLogger) DeleteOlderThan(_ time.Time) (int, error) { return 0, nil }
func (r *recordingLogger) Close() error                             { return nil }

func (r *recordingLogger) activities() []models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Activity(nil), r.sent...)
}

type patternCache struct {
	c.ICache
	mu       sync.Mutex
	patterns []string
}

func (p *patternCache) DeleteByPattern(_ context.Context, pattern string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.patterns = append(p.patterns, pattern)
	return 1, nil
}

func (p *patternCache) deleted() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.patterns...)
}

func sampleActivity() models.Activity {
	return models.Activity{
		Message: "SHARER_CREATED",
		Filter: models.LogFilter{
			Fields:    map[string]string{"action": models.ActionCreate, "object_type": models.ObjectSharer},
			Timestamp: "1736000000000000000",
		},
	}
}

func TestActivityEventFlow(t *testing.T) {
	ch := messaging.NewMemoryChannel()
	pub := messaging.NewMemoryPublisher(ch, "activity")
	sub := messaging.NewMemorySubscriber(ch, "activity")
	defer pub.Close()

	logger := &recordingLogger{}
	cache := &patternCache{}
	params := &EventParams{ActivityLogger: logger, Cache: cache}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages := sub.Subscribe(ctx)
	require.NotNil(t, messages)
	go HandleEvents(ctx, params, messages)

	NewActivityEvent(pub, sampleActivity(), AdminScope(), SharerScope(7)).Trigger()

	require.Eventually(t, func() bool {
		return len(logger.activities()) == 1 && len(cache.deleted()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "SHARER_CREATED", logger.activities()[0].Message)
	assert.Equal(t, []string{"stats:admin:*", "stats:sharer:7:*"}, cache.deleted())
}

func TestHandleEvents(t *testing.T) {
	t.Run("should keep consuming after a failed callback", func(t *testing.T) {
		logger := &recordingLogger{err: errors.New("index closed")}
		cache := &patternCache{}
		params := &EventParams{ActivityLogger: logger, Cache: cache}

		messages := make(chan *message.Message, 2)
		first := encodedMessage(t, NewActivityEvent(nil, sampleActivity(), AdminScope()).Payload)
		second := encodedMessage(t, NewActivityEvent(nil, sampleActivity(), AdminScope()).Payload)
		messages <- first
		messages <- second
		close(messages)

		HandleEvents(context.Background(), params, messages)

		assertAcked(t, first)
		assertAcked(t, second)
		assert.Empty(t, cache.deleted(), "stats are kept when the activity could not be recorded")
	})

	t.Run("should ack and skip unknown event types", func(t *testing.T) {
		logger := &recordingLogger{}
		params := &EventParams{ActivityLogger: logger, Cache: &patternCache{}}

		msg := message.NewMessage(watermill.NewUUID(), []byte(`{}`))
		msg.Metadata.Set("type", "SomethingElse")

		messages := make(chan *message.Message, 1)
		messages <- msg
		close(messages)

		HandleEvents(context.Background(), params, messages)

		assertAcked(t, msg)
		assert.Empty(t, logger.activities())
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		done := make(chan struct{})
		go func() {
			HandleEvents(ctx, &EventParams{}, make(chan *message.Message))
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("HandleEvents did not return after cancel")
		}
	})
}

func TestTriggerWithoutPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		NewActivityEvent(nil, sampleActivity()).Trigger()
	})
}

func encodedMessage(t *testing.T, payload ActivityPayload) *message.Message {
	t.Helper()
	ch := make(chan *message.Message, 1)
	pub := &capturePublisher{out: ch}
	(&ActivityEvent{Publisher: pub, Payload: payload}).Trigger()
	return <-ch
}

func assertAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	default:
		t.Errorf("message %s was not acked", msg.UUID)
	}
}

type capturePublisher struct {
	out chan *message.Message
}

func (p *capturePublisher) Publish(messages ...*message.Message) error {
	for _, msg := range messages {
		p.out <- msg
	}
	return nil
}

func (p *capturePublisher) Close() error { return nil }
