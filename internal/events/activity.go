package events

import (
	"context"
	"encoding/json"
	"fmt"

	"dashboard/internal/configuration"
	"dashboard/internal/messaging"
	"dashboard/internal/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

const ActivityEventName = "ActivityEvent"

// ActivityPayload is the wire body of an ActivityEvent. Scopes lists the stats
// cache scopes the action made stale.
type ActivityPayload struct {
	Type     string          `json:"type"`
	Activity models.Activity `json:"activity"`
	Scopes   []string        `json:"scopes,omitempty"`
}

type ActivityEvent struct {
	Publisher messaging.IPublisher
	Payload   ActivityPayload
}

func NewActivityEvent(publisher messaging.IPublisher, activity models.Activity, scopes ...string) *ActivityEvent {
	return &ActivityEvent{
		Publisher: publisher,
		Payload: ActivityPayload{
			Type:     ActivityEventName,
			Activity: activity,
			Scopes:   scopes,
		},
	}
}

// Trigger publishes the event. Failures are logged and never reach the caller.
func (e *ActivityEvent) Trigger() {
	if e.Publisher == nil {
		zap.L().Warn("No publisher configured, dropping event", zap.String("type", e.Payload.Type))
		return
	}

	payload, err := json.Marshal(e.Payload)
	if err != nil {
		zap.L().Error("Failed to encode event", zap.String("type", e.Payload.Type), zap.Error(err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("type", e.Payload.Type)

	if err = e.Publisher.Publish(msg); err != nil {
		zap.L().Error("Failed to publish event", zap.String("type", e.Payload.Type), zap.Error(err))
	}
}

func (e *ActivityEvent) callback(ctx context.Context, params *EventParams) error {
	if err := params.ActivityLogger.Send(e.Payload.Activity); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	for _, scope := range e.Payload.Scopes {
		pattern := fmt.Sprintf(configuration.CacheStatsScopePattern, scope)
		removed, err := params.Cache.DeleteByPattern(ctx, pattern)
		if err != nil {
			return fmt.Errorf("failed to invalidate stats scope %s: %w", scope, err)
		}
		if removed > 0 {
			zap.L().Debug("Invalidated cached stats", zap.String("scope", scope), zap.Int("keys", removed))
		}
	}

	return nil
}

// AdminScope and SharerScope name the stats cache scopes.
func AdminScope() string {
	return configuration.StatsScopeAdmin
}

func SharerScope(sharerID int64) string {
	return fmt.Sprintf(configuration.StatsScopeSharer, sharerID)
}
