package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aescanero/sentiment/pkg/adapters/events/memory"
	"github.com/aescanero/sentiment/pkg/ports"
)

func TestHandleEventStream(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bus := memory.NewInMemoryEventBus(zap.NewNop())
	handler := NewHandler(bus, zap.NewNop())

	router := gin.New()
	router.GET("/ws", handler.HandleEventStream)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return bus.SubscriberCount(ports.TopicSentimentEvents) == 1
	}, time.Second, 10*time.Millisecond)

	sent := ports.Event{
		ID:   "evt-1",
		Type: ports.EventClassificationCompleted,
		Data: map[string]interface{}{"label": "Positive"},
	}
	require.NoError(t, bus.Publish(context.Background(), ports.TopicSentimentEvents, sent))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got ports.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, ports.EventClassificationCompleted, got.Type)
	assert.Equal(t, "Positive", got.Data["label"])

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return bus.SubscriberCount(ports.TopicSentimentEvents) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestForward_DropsWhenFull(t *testing.T) {
	handler := NewHandler(memory.NewInMemoryEventBus(zap.NewNop()), zap.NewNop())
	ch := make(chan ports.Event, 1)
	forward := handler.forward(ch)

	require.NoError(t, forward(context.Background(), ports.Event{ID: "1"}))
	require.NoError(t, forward(context.Background(), ports.Event{ID: "2"}))

	assert.Len(t, ch, 1)
	assert.Equal(t, "1", (<-ch).ID)
}
