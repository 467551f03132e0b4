package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrValidation matches any ValidationError.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError reports an operation against an id that no longer exists.
// Callers recover by re-rendering from the current scene.
type NotFoundError struct {
	Ref SelectionRef
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Ref)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports rejected input. Message is suitable for inline display.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func notFound(ref SelectionRef) error { return &NotFoundError{Ref: ref} }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
