package crud

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("crud: entity not found")

	// ErrInvalidID is returned when an entity identifier is missing or
	// too short to be valid.
	ErrInvalidID = errors.New("crud: invalid entity id")

	// ErrInvalidStatus is returned for status values outside the
	// accepted set.
	ErrInvalidStatus = errors.New("crud: invalid status")
)

// UniqueError reports a uniqueness pre-check failure on one column.
type UniqueError struct {
	Value  any
	Column string
}

func (e *UniqueError) Error() string {
	return fmt.Sprintf("crud: value %v already exists for column %q", e.Value, e.Column)
}

// IsNotFound reports whether err means a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnique reports whether err is a uniqueness violation.
func IsUnique(err error) bool {
	var ue *UniqueError
	return errors.As(err, &ue)
}
