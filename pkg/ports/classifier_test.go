package ports

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification_Top(t *testing.T) {
	t.Run("returns first candidate", func(t *testing.T) {
		c := &Classification{Candidates: []LabelScore{
			{Label: "Very Positive", Score: 0.8},
			{Label: "Positive", Score: 0.15},
		}}

		top, ok := c.Top()

		assert.True(t, ok)
		assert.Equal(t, "Very Positive", top.Label)
	})

	t.Run("empty candidates", func(t *testing.T) {
		_, ok := (&Classification{}).Top()
		assert.False(t, ok)
	})

	t.Run("nil classification", func(t *testing.T) {
		var c *Classification
		_, ok := c.Top()
		assert.False(t, ok)
	})
}

func TestInferenceErrorKindOf(t *testing.T) {
	wrapped := fmt.Errorf("classify: %w", &InferenceError{
		Kind:       InferenceErrorRateLimited,
		StatusCode: 429,
		Err:        errors.New("too many requests"),
	})

	assert.Equal(t, InferenceErrorRateLimited, InferenceErrorKindOf(wrapped))
	assert.Equal(t, InferenceErrorProvider, InferenceErrorKindOf(errors.New("boom")))
	assert.Contains(t, wrapped.Error(), "status 429")
}
