package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// CorrelationIDKey is the metadata key tying a message to the request that caused it.
const CorrelationIDKey = "correlation_id"

// Publish is a function that publishes a typed event.
type Publish[T any] func(ctx context.Context, event *T) error

// PublishOption configures NewPublishFunc.
type PublishOption func(*publishConfig)

type publishConfig struct {
	correlationID func(ctx context.Context) string
}

// WithCorrelationID stamps every message with the id fn derives from the
// publish context. Empty ids are not written.
func WithCorrelationID(fn func(ctx context.Context) string) PublishOption {
	return func(c *publishConfig) {
		c.correlationID = fn
	}
}

// NewPublishFunc creates a typed publish function for a specific topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string, opts ...PublishOption) Publish[T] {
	var cfg publishConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(ctx context.Context, event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.SetContext(ctx)

		if cfg.correlationID != nil {
			if id := cfg.correlationID(ctx); id != "" {
				msg.Metadata.Set(CorrelationIDKey, id)
			}
		}

		if err := publisher.Publish(topic, msg); err != nil {
			return fmt.Errorf("publish %s event: %w", topic, err)
		}

		return nil
	}
}

// NoopPublish returns a publish function that drops every event.
func NoopPublish[T any]() Publish[T] {
	return func(context.Context, *T) error { return nil }
}

// PublisherGroup owns the publisher so the injector can close it.
type PublisherGroup struct {
	publisher message.Publisher
}

func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Publisher returns the underlying message publisher for creating typed publish functions.
func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the underlying publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
