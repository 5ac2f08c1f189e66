package core

import (
	"dashboard/internal/messaging"

	"go.uber.org/zap"
)

// EventsManager owns the in-process topics of the dashboard. A topic's
// publisher and subscriber share one gochannel.
type EventsManager struct {
	publishers  map[string]messaging.IPublisher
	subscribers map[string]messaging.ISubscriber
}

func NewEventsManager(topics ...string) *EventsManager {
	manager := &EventsManager{
		publishers:  make(map[string]messaging.IPublisher, len(topics)),
		subscribers: make(map[string]messaging.ISubscriber, len(topics)),
	}

	for _, topic := range topics {
		ch := messaging.NewMemoryChannel()
		manager.publishers[topic] = messaging.NewMemoryPublisher(ch, topic)
		manager.subscribers[topic] = messaging.NewMemorySubscriber(ch, topic)
		zap.L().Info("Initialized topic", zap.String("topic", topic), zap.String("provider", "memory"))
	}

	return manager
}

func (em *EventsManager) GetPublisher(topic string) messaging.IPublisher {
	publisher, exists := em.publishers[topic]
	if !exists {
		zap.L().Warn("Publisher not found", zap.String("topic", topic))
		return nil
	}
	return publisher
}

func (em *EventsManager) GetSubscriber(topic string) messaging.ISubscriber {
	subscriber, exists := em.subscribers[topic]
	if !exists {
		zap.L().Warn("Subscriber not found", zap.String("topic", topic))
		return nil
	}
	return subscriber
}

// Close closes every topic. Publisher and subscriber share a channel, so
// closing the publisher is enough.
func (em *EventsManager) Close() {
	for topic, publisher := range em.publishers {
		if err := publisher.Close(); err != nil {
			zap.L().Error("Failed to close topic", zap.String("topic", topic), zap.Error(err))
		}
	}
}
