package eventbus

import (
	"context"
	"encoding/json"
)

// Topic holds the base name of a Kafka topic.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// Event is the envelope written as the Kafka message value. Key selects the
// partition; events without a key are keyed by ID.
type Event struct {
	ID      string          `json:"id"`
	Key     string          `json:"key,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EventBus publishes events to topics.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// NopEventBus drops every event. It is used when Kafka is disabled.
type NopEventBus struct{}

func (NopEventBus) Publish(context.Context, string, Event) error { return nil }

func (NopEventBus) Close() {}
