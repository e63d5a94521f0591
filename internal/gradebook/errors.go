package gradebook

import (
	"errors"
	"fmt"

	"github.com/roach88/gradebook/internal/model"
)

// NotFoundError reports a reference to a record that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// ConflictError reports a write that would break a uniqueness rule.
type ConflictError struct {
	Entity  string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Message)
}

// IsNotFound returns true if err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict returns true if err wraps a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsValidation returns true if err wraps a model.ValidationError.
func IsValidation(err error) bool {
	return model.IsValidationError(err)
}

func notFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func invalid(entity, field, msg string) error {
	return &model.ValidationError{Entity: entity, Fields: map[string]string{field: msg}}
}
