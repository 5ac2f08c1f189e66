package events

import (
	"context"
	"encoding/json"

	"dashboard/internal/activity"
	c "dashboard/internal/cache"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

type EventParams struct {
	ActivityLogger activity.IActivityLogger
	Cache          c.ICache
}

type callbackEvent interface {
	callback(ctx context.Context, params *EventParams) error
}

func decode(msg *message.Message) (callbackEvent, bool) {
	switch msg.Metadata.Get("type") {
	case ActivityEventName:
		var payload ActivityPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			zap.L().Error("Failed to decode event", zap.String("message_id", msg.UUID), zap.Error(err))
			return nil, false
		}
		return &ActivityEvent{Payload: payload}, true
	default:
		zap.L().Warn("Unknown event type",
			zap.String("message_id", msg.UUID),
			zap.String("type", msg.Metadata.Get("type")))
		return nil, false
	}
}

// HandleEvents consumes messages until the channel closes or ctx is done.
// Every message is acked: a failed callback is logged, not redelivered.
func HandleEvents(ctx context.Context, params *EventParams, messages <-chan *message.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			if event, decoded := decode(msg); decoded {
				if err := event.callback(ctx, params); err != nil {
					zap.L().Error("Event handler failed",
						zap.String("message_id", msg.UUID),
						zap.String("type", msg.Metadata.Get("type")),
						zap.Error(err))
				}
			}

			msg.Ack()
		}
	}
}
