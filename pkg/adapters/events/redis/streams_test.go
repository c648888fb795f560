package redis

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aescanero/sentiment/pkg/ports"
)

func newTestBus(t *testing.T) (*StreamsEventBus, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	bus := NewStreamsEventBus(client, 100, zap.NewNop())
	t.Cleanup(func() { _ = bus.Close() })
	return bus, client
}

func TestStreamsEventBus_Publish(t *testing.T) {
	bus, client := newTestBus(t)
	ctx := context.Background()

	event := ports.Event{
		ID:        "evt-1",
		Type:      ports.EventClassificationCompleted,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Data:      map[string]interface{}{"label": "Positive"},
	}
	require.NoError(t, bus.Publish(ctx, ports.TopicSentimentEvents, event))

	entries, err := client.XRange(ctx, "sentiment:events:sentiment.events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var got ports.Event
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["data"].(string)), &got))
	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, ports.EventClassificationCompleted, got.Type)
	assert.Equal(t, "Positive", got.Data["label"])
}

func TestStreamsEventBus_Subscribe(t *testing.T) {
	bus, _ := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Publish(ctx, ports.TopicSentimentEvents, ports.Event{ID: "before"}))

	var (
		mu  sync.Mutex
		ids []string
	)
	require.NoError(t, bus.Subscribe(ctx, ports.TopicSentimentEvents, func(_ context.Context, ev ports.Event) error {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, ev.ID)
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, ports.TopicSentimentEvents, ports.Event{ID: "after-1"}))
	require.NoError(t, bus.Publish(ctx, ports.TopicSentimentEvents, ports.Event{ID: "after-2"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ids) == 2
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"after-1", "after-2"}, ids)
	mu.Unlock()
}

func TestStreamsEventBus_SubscribeAfterClose(t *testing.T) {
	bus, _ := newTestBus(t)
	require.NoError(t, bus.Close())

	err := bus.Subscribe(context.Background(), ports.TopicSentimentEvents, func(context.Context, ports.Event) error { return nil })

	assert.ErrorIs(t, err, ErrClosed)
}

func TestStreamsEventBus_SubscribeConcurrentWithClose(t *testing.T) {
	bus, _ := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := bus.Subscribe(ctx, ports.TopicSentimentEvents, func(context.Context, ports.Event) error { return nil })
			if err != nil {
				assert.ErrorIs(t, err, ErrClosed)
			}
		}()
	}

	require.NoError(t, bus.Close())
	wg.Wait()

	done := make(chan struct{})
	go func() {
		_ = bus.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return after concurrent subscriptions")
	}
}

func TestGetStreamKey(t *testing.T) {
	assert.Equal(t, "sentiment:events:sentiment.events", getStreamKey(ports.TopicSentimentEvents))
}
