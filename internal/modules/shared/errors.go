// Package shared holds helpers used by every module service.
package shared

import (
	"errors"
	"fmt"

	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
)

// StorageError maps repository sentinels onto apperror so handlers can hand
// the result straight to response.ResponseError. what names the entity the
// call was about.
func StorageError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperror.NotFound(what)
	case errors.Is(err, storage.ErrInvalidReference):
		return apperror.BadRequest(what + " references a record that does not exist")
	case errors.Is(err, storage.ErrDuplicate):
		return apperror.BadRequest(what + " already exists")
	case errors.Is(err, storage.ErrInvalidInput):
		return fmt.Errorf("%s: %w", what, apperror.ErrInvalidInput)
	}
	return err
}

// NotFoundIfFalse turns the false of a boolean mutation into a 404.
func NotFoundIfFalse(ok bool, err error, what string) error {
	if err != nil {
		return StorageError(err, what)
	}
	if !ok {
		return apperror.NotFound(what)
	}
	return nil
}
