package household

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrIntegrity  = errors.New("integrity violation")
)

// ValidationError reports malformed or out-of-range input. The whole
// operation it came from is rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError for the given field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced id that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IntegrityError reports a delete blocked by dependent records.
type IntegrityError struct {
	Resource  string
	ID        string
	Expenses  int
	Overrides int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s %s is still referenced by %d expense(s) and %d monthly budget(s)",
		e.Resource, e.ID, e.Expenses, e.Overrides)
}

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

// Blocking is the number of records preventing the delete.
func (e *IntegrityError) Blocking() int {
	return e.Expenses + e.Overrides
}
