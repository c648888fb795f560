package ports

import (
	"context"
	"time"
)

// EventType identifies a classification event
type EventType string

const (
	EventClassificationCompleted EventType = "classification.completed"
	EventClassificationFailed    EventType = "classification.failed"
)

// TopicSentimentEvents is the topic classification events are published on
const TopicSentimentEvents = "sentiment.events"

// Event is a classification outcome. It never carries the input text.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// EventHandler is invoked for every event received on a subscription
type EventHandler func(ctx context.Context, event Event) error

// EventBus publishes and fans out events. Subscriptions end when ctx is done.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Close() error
}
