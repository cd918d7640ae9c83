package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type likeRequest struct {
	Type    string `validate:"required,oneof=like dislike"`
	VideoID string `validate:"required"`
	Name    string `validate:"min=3"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()
	err := v.Struct(likeRequest{Type: "love", Name: "ab"})

	assert.True(t, IsValidationError(err))
	msg := FormatValidationError(err)
	assert.Contains(t, msg, "Type must be one of: like dislike")
	assert.Contains(t, msg, "Video is required")
	assert.Contains(t, msg, "Name must be at least 3 characters")
}

func TestFormatValidationError_PassesThroughOtherErrors(t *testing.T) {
	err := errors.New("unexpected EOF")
	assert.False(t, IsValidationError(err))
	assert.Equal(t, "unexpected EOF", FormatValidationError(err))
}
