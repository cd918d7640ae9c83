package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestStorageError(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", storage.ErrNotFound), http.StatusNotFound},
		{"invalid reference", storage.ErrInvalidReference, http.StatusBadRequest},
		{"duplicate", storage.ErrDuplicate, http.StatusBadRequest},
		{"invalid input", storage.ErrInvalidInput, http.StatusBadRequest},
		{"infrastructure", boom, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.MapErrorToStatus(StorageError(tt.err, "video")))
		})
	}

	assert.NoError(t, StorageError(nil, "video"))
	assert.EqualError(t, StorageError(storage.ErrNotFound, "video"), "video not found")
}

func TestNotFoundIfFalse(t *testing.T) {
	assert.NoError(t, NotFoundIfFalse(true, nil, "comment"))
	assert.ErrorIs(t, NotFoundIfFalse(false, nil, "comment"), apperror.ErrNotFound)
	assert.ErrorIs(t, NotFoundIfFalse(false, storage.ErrNotFound, "comment"), apperror.ErrNotFound)
}
