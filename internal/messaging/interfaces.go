package messaging

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisher interface {
	Publish(messages ...*message.Message) error
	Close() error
}

type ISubscriber interface {
	// Subscribe returns the message stream of the topic. It is closed when ctx is done
	// or the subscriber is closed.
	Subscribe(ctx context.Context) <-chan *message.Message
	Close() error
}
