package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/aescanero/sentiment/pkg/ports"
)

// Client-facing error messages. Provider details are never exposed.
const (
	msgMissingText    = "Missing text"
	msgNotConfigured  = "HF_TOKEN not configured"
	msgInferenceError = "Error calling Hugging Face"
)

// SentimentResponse is the success body of POST /sentiment
type SentimentResponse struct {
	Label string `json:"label"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// errNoCandidates is reported when the provider succeeds with nothing to return
var errNoCandidates = &ports.InferenceError{
	Kind: ports.InferenceErrorMalformed,
	Err:  errors.New("classification has no candidates"),
}

// handleIndex renders the static index page
func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	token := "configured"
	if !s.tokenConfigured {
		token = "missing"
	}

	eventBus := s.eventBusName
	if s.eventBus == nil {
		eventBus = "disabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": gin.H{
			"hf_token":  token,
			"model":     s.model,
			"event_bus": eventBus,
		},
	})
}

// handleSentiment classifies the request text and returns the top label
func (s *Server) handleSentiment(c *gin.Context) {
	if !s.tokenConfigured {
		s.metrics.IncRequests(ports.OutcomeNotConfigured)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgNotConfigured})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		s.logger.Debug("failed to read request body", zap.Error(err))
		body = nil
	}

	text := extractText(body)
	if text == "" {
		s.metrics.IncRequests(ports.OutcomeMissingText)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgMissingText})
		return
	}

	requestID := c.GetString(requestIDKey)

	start := time.Now()
	result, err := s.classifier.Classify(c.Request.Context(), text)
	duration := time.Since(start)
	s.metrics.ObserveInferenceDuration(s.model, duration)

	var top ports.LabelScore
	if err == nil {
		var ok bool
		if top, ok = result.Top(); !ok {
			err = errNoCandidates
		}
	}

	if err != nil {
		kind := ports.InferenceErrorKindOf(err)
		s.logger.Error("error calling Hugging Face",
			zap.String("request_id", requestID),
			zap.String("model", s.model),
			zap.String("reason", string(kind)),
			zap.Duration("duration", duration),
			zap.Error(err))
		s.metrics.IncRequests(ports.OutcomeInferenceError)
		s.metrics.IncInferenceFailures(kind)

		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInferenceError})
		s.publish(c, ports.EventClassificationFailed, requestID, map[string]interface{}{
			"model":       s.model,
			"reason":      string(kind),
			"duration_ms": duration.Milliseconds(),
		})
		return
	}

	s.metrics.IncRequests(ports.OutcomeOK)
	s.metrics.IncLabel(top.Label)

	c.JSON(http.StatusOK, SentimentResponse{Label: top.Label})
	s.publish(c, ports.EventClassificationCompleted, requestID, map[string]interface{}{
		"model":       s.model,
		"label":       top.Label,
		"score":       top.Score,
		"duration_ms": duration.Milliseconds(),
	})
}

// extractText returns the trimmed "text" string of a JSON object body.
// Empty, invalid or non-object bodies and non-string values yield "".
func extractText(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return ""
	}

	value := root.Get("text")
	if value.Type != gjson.String {
		return ""
	}

	return strings.TrimSpace(value.String())
}

// publish emits a classification event. Failures never affect the response.
func (s *Server) publish(c *gin.Context, eventType ports.EventType, requestID string, data map[string]interface{}) {
	if s.eventBus == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), s.eventPublishTimeout)
	defer cancel()

	event := ports.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	if err := s.eventBus.Publish(ctx, ports.TopicSentimentEvents, event); err != nil {
		s.logger.Warn("failed to publish classification event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
	}
}
