package ports

import (
	"context"
	"errors"
	"fmt"
)

// LabelScore is one candidate returned by the inference provider
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classification is the ordered candidate list for one input text
type Classification struct {
	Model      string       `json:"model"`
	Candidates []LabelScore `json:"candidates"`
}

// Top returns the first candidate. The provider orders candidates by score.
func (c *Classification) Top() (LabelScore, bool) {
	if c == nil || len(c.Candidates) == 0 {
		return LabelScore{}, false
	}
	return c.Candidates[0], true
}

// Classifier classifies a single text with a fixed model
type Classifier interface {
	Classify(ctx context.Context, text string) (*Classification, error)
}

// InferenceErrorKind identifies why a provider call failed
type InferenceErrorKind string

const (
	InferenceErrorTransport    InferenceErrorKind = "transport"
	InferenceErrorUnauthorized InferenceErrorKind = "unauthorized"
	InferenceErrorRateLimited  InferenceErrorKind = "rate_limited"
	InferenceErrorUnavailable  InferenceErrorKind = "unavailable"
	InferenceErrorProvider     InferenceErrorKind = "provider"
	InferenceErrorMalformed    InferenceErrorKind = "malformed_response"
)

// InferenceError is returned by Classifier implementations for every failure
type InferenceError struct {
	Kind       InferenceErrorKind
	StatusCode int
	Err        error
}

func (e *InferenceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("inference %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("inference %s: %v", e.Kind, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// InferenceErrorKindOf returns the kind of err, or InferenceErrorProvider when
// err is not an *InferenceError.
func InferenceErrorKindOf(err error) InferenceErrorKind {
	var infErr *InferenceError
	if errors.As(err, &infErr) {
		return infErr.Kind
	}
	return InferenceErrorProvider
}
