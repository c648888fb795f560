package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aescanero/sentiment/pkg/ports"
)

// DefaultMaxLen caps each stream, approximately
const DefaultMaxLen = 10000

// readBlock is how long a single XREAD waits for new entries
const readBlock = time.Second

// StreamsEventBus implements ports.EventBus using Redis Streams.
// Subscribers read with plain XREAD so every subscriber sees every event.
type StreamsEventBus struct {
	client *redis.Client
	logger *zap.Logger
	maxLen int64

	// mu orders wg.Add in Subscribe against Close
	mu     sync.Mutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ErrClosed is returned when subscribing to a closed bus
var ErrClosed = errors.New("event bus closed")

// NewStreamsEventBus creates a new Redis Streams event bus
func NewStreamsEventBus(client *redis.Client, maxLen int64, logger *zap.Logger) *StreamsEventBus {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &StreamsEventBus{
		client: client,
		logger: logger,
		maxLen: maxLen,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish appends an event to the topic stream
func (e *StreamsEventBus) Publish(ctx context.Context, topic string, event ports.Event) error {
	streamKey := getStreamKey(topic)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: e.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err := e.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	e.logger.Debug("event published",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("stream", streamKey))

	return nil
}

// Subscribe delivers every event appended after this call until ctx is done
func (e *StreamsEventBus) Subscribe(ctx context.Context, topic string, handler ports.EventHandler) error {
	streamKey := getStreamKey(topic)

	// Resolve the current tail now so events published right after
	// Subscribe returns are not missed.
	lastID := "0-0"
	tail, err := e.client.XRevRangeN(ctx, streamKey, "+", "-", 1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read stream tail: %w", err)
	}
	if len(tail) > 0 {
		lastID = tail[0].ID
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.wg.Add(2)
	e.mu.Unlock()

	e.logger.Info("subscribed to event stream",
		zap.String("stream", streamKey),
		zap.String("from_id", lastID))

	subCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer e.wg.Done()
		defer cancel()

		select {
		case <-e.ctx.Done():
		case <-subCtx.Done():
		}
	}()

	go func() {
		defer e.wg.Done()
		e.readStream(subCtx, streamKey, lastID, handler)
	}()

	return nil
}

// readStream reads entries after lastID until ctx is done
func (e *StreamsEventBus) readStream(ctx context.Context, streamKey, lastID string, handler ports.EventHandler) {
	for ctx.Err() == nil {
		streams, err := e.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{streamKey, lastID},
			Count:   10,
			Block:   readBlock,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			e.logger.Error("failed to read from stream",
				zap.String("stream", streamKey),
				zap.Error(err))

			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				lastID = message.ID
				e.processMessage(ctx, streamKey, message, handler)
			}
		}
	}
}

// processMessage decodes one stream entry and hands it to handler
func (e *StreamsEventBus) processMessage(ctx context.Context, streamKey string, message redis.XMessage, handler ports.EventHandler) {
	data, ok := message.Values["data"].(string)
	if !ok {
		e.logger.Error("invalid message format",
			zap.String("stream", streamKey),
			zap.String("message_id", message.ID))
		return
	}

	var event ports.Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		e.logger.Error("failed to unmarshal event",
			zap.String("stream", streamKey),
			zap.String("message_id", message.ID),
			zap.Error(err))
		return
	}

	if err := handler(ctx, event); err != nil {
		e.logger.Warn("handler error",
			zap.String("stream", streamKey),
			zap.String("message_id", message.ID),
			zap.Error(err))
	}
}

// Close stops all subscriptions. The Redis client is closed by the caller.
func (e *StreamsEventBus) Close() error {
	e.mu.Lock()
	e.closed = true
	e.cancel()
	e.mu.Unlock()

	e.wg.Wait()
	return nil
}

// getStreamKey returns the Redis stream key for a topic
func getStreamKey(topic string) string {
	return fmt.Sprintf("sentiment:events:%s", topic)
}
