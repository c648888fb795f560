package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/aescanero/sentiment/pkg/ports"
)

// Model is the only model the gateway classifies with
const Model = "tabularisai/multilingual-sentiment-analysis"

// DefaultBaseURL is where the provider's "auto" policy routes this model
const DefaultBaseURL = "https://router.huggingface.co/hf-inference/models"

// maxErrorBody bounds how much of a failed response is kept for logging
const maxErrorBody = 4 << 10

// Config holds client configuration
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client calls the Hugging Face text-classification API
type Client struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// classifyRequest is the provider request body
type classifyRequest struct {
	Inputs string `json:"inputs"`
}

// NewClient creates a new Hugging Face client
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("hugging face token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
		model:      Model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Model returns the model identifier the client classifies with
func (c *Client) Model() string {
	return c.model
}

// Classify sends text to the provider and returns the ordered candidates
func (c *Client) Classify(ctx context.Context, text string) (*ports.Classification, error) {
	body, err := json.Marshal(classifyRequest{Inputs: text})
	if err != nil {
		return nil, &ports.InferenceError{Kind: ports.InferenceErrorTransport, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := c.baseURL + "/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ports.InferenceError{Kind: ports.InferenceErrorTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ports.InferenceError{Kind: ports.InferenceErrorTransport, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	c.logger.Debug("inference response received",
		zap.String("model", c.model),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(resp.StatusCode, respBody)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ports.InferenceError{Kind: ports.InferenceErrorTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	candidates, err := parseCandidates(respBody)
	if err != nil {
		return nil, &ports.InferenceError{Kind: ports.InferenceErrorMalformed, Err: err}
	}

	return &ports.Classification{
		Model:      c.model,
		Candidates: candidates,
	}, nil
}

// statusError maps a non-200 provider response to an InferenceError
func statusError(status int, body []byte) error {
	kind := ports.InferenceErrorProvider
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ports.InferenceErrorUnauthorized
	case http.StatusTooManyRequests:
		kind = ports.InferenceErrorRateLimited
	case http.StatusServiceUnavailable:
		kind = ports.InferenceErrorUnavailable
	}

	msg := strings.TrimSpace(string(body))
	if gjson.ValidBytes(body) {
		if e := gjson.GetBytes(body, "error"); e.Exists() {
			msg = e.String()
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &ports.InferenceError{
		Kind:       kind,
		StatusCode: status,
		Err:        fmt.Errorf("provider returned status %d: %s", status, msg),
	}
}

// parseCandidates accepts both [{label,score}] and [[{label,score}]]
func parseCandidates(body []byte) ([]ports.LabelScore, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not valid JSON")
	}

	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("expected a JSON array, got %s", root.Type)
	}

	list := root.Array()
	if len(list) > 0 && list[0].IsArray() {
		list = list[0].Array()
	}
	if len(list) == 0 {
		return nil, errors.New("response contains no candidates")
	}

	candidates := make([]ports.LabelScore, 0, len(list))
	for i, item := range list {
		label := item.Get("label")
		if label.Type != gjson.String {
			return nil, fmt.Errorf("candidate %d has no label", i)
		}
		candidates = append(candidates, ports.LabelScore{
			Label: label.String(),
			Score: item.Get("score").Float(),
		})
	}

	return candidates, nil
}
