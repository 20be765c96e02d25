package service

import (
	"errors"

	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/store"
)

// translateStoreError converts store sentinels into domain errors. Domain
// errors pass through unchanged and anything else is returned as is, so
// callers still see the underlying failure.
func translateStoreError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}

	var de *domainerrors.Error
	if errors.As(err, &de) {
		return err
	}

	var se *store.Error
	if !errors.As(err, &se) {
		return err
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound(notFoundMsg).WithCause(err)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.AlreadyExists(se.Message).WithCause(err)
	case errors.Is(err, store.ErrInvalidInput):
		return domainerrors.Validation(se.Message).WithCause(err)
	default:
		return err
	}
}
