package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrBackendUnavailable = errors.New("backend unavailable")

	ErrObjectNotFound   = fmt.Errorf("object %w", ErrNotFound)
	ErrStoreUnavailable = fmt.Errorf("object store: %w", ErrBackendUnavailable)
	ErrPersistence      = fmt.Errorf("database: %w", ErrBackendUnavailable)
	ErrModelUnavailable = fmt.Errorf("model service: %w", ErrBackendUnavailable)
)

// Validationf builds an ErrValidation with a message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
