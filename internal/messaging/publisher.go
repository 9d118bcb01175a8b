package messaging

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Publish is a function that publishes a typed event. Handlers depend on
// this instead of the underlying bus, which keeps them trivial to fake in
// tests.
type Publish[T any] func(event *T) error

// NewPublishFunc creates a typed publish function bound to one topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}

		return publisher.Publish(topic, message.NewMessage(uuid.NewString(), payload))
	}
}

// PublisherGroup owns the underlying publisher lifecycle.
type PublisherGroup struct {
	publisher message.Publisher
}

func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Publisher exposes the raw publisher for creating typed publish functions.
func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
