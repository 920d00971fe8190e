package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrStorage      = errors.New("storage error")
	ErrNotFound     = errors.New("not found")
)

// ErrorKind returns the machine readable kind for err, used by the transport
// layer when rendering failures.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	default:
		return "internal"
	}
}

// AsStorage wraps err so it reports ErrStorage unless it already carries one
// of the domain kinds.
func AsStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
