package memory

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/aescanero/sentiment/pkg/ports"
)

// ErrClosed is returned when subscribing to a closed bus
var ErrClosed = errors.New("event bus closed")

type subscription struct {
	id      uint64
	handler ports.EventHandler
}

// InMemoryEventBus implements ports.EventBus with in-process handlers
type InMemoryEventBus struct {
	logger *zap.Logger

	mu          sync.RWMutex
	nextID      uint64
	subscribers map[string][]subscription
	closed      bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		logger:      logger,
		subscribers: make(map[string][]subscription),
	}
}

// Publish delivers an event to all subscribers of a topic.
// Handlers run synchronously; they must not block.
func (e *InMemoryEventBus) Publish(ctx context.Context, topic string, event ports.Event) error {
	e.mu.RLock()
	subs := make([]subscription, len(e.subscribers[topic]))
	copy(subs, e.subscribers[topic])
	e.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.handler(ctx, event); err != nil {
			e.logger.Warn("handler error",
				zap.String("topic", topic),
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}

	return nil
}

// Subscribe registers handler until ctx is done
func (e *InMemoryEventBus) Subscribe(ctx context.Context, topic string, handler ports.EventHandler) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.nextID++
	id := e.nextID
	e.subscribers[topic] = append(e.subscribers[topic], subscription{id: id, handler: handler})
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.unsubscribe(topic, id)
	}()

	return nil
}

// SubscriberCount returns the number of active subscriptions on a topic
func (e *InMemoryEventBus) SubscriberCount(topic string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.subscribers[topic])
}

// Close drops all subscriptions
func (e *InMemoryEventBus) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.subscribers = make(map[string][]subscription)
	return nil
}

func (e *InMemoryEventBus) unsubscribe(topic string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.subscribers[topic]
	for i, sub := range subs {
		if sub.id == id {
			e.subscribers[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(e.subscribers[topic]) == 0 {
		delete(e.subscribers, topic)
	}
}
