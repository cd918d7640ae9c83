package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("video"), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("you can only edit your own comment"), http.StatusForbidden},
		{"bad request", BadRequest("user already has a channel"), http.StatusBadRequest},
		{"invalid input", fmt.Errorf("limit: %w", ErrInvalidInput), http.StatusBadRequest},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"explicit code", New(http.StatusConflict, "taken", nil), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatus(tc.err))
		})
	}
}

func TestHelpersKeepMessage(t *testing.T) {
	err := BadRequest("user already has a channel")
	assert.Equal(t, "user already has a channel", err.Error())
	assert.ErrorIs(t, err, ErrBadRequest)

	assert.Equal(t, "video not found", NotFound("video").Error())
	assert.ErrorIs(t, NotFound("video"), ErrNotFound)
	assert.Equal(t, "not yours", Forbidden("not yours").Error())

	wrapped := fmt.Errorf("create channel: %w", BadRequest("handle is taken"))
	assert.Equal(t, "handle is taken", Message(wrapped))
	assert.Equal(t, "boom", Message(errors.New("boom")))

	appErr := New(http.StatusBadRequest, "", ErrInvalidInput)
	assert.Equal(t, ErrInvalidInput.Error(), appErr.Error())
	assert.ErrorIs(t, appErr, ErrInvalidInput)
}
