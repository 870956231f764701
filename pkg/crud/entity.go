package crud

import (
	"fmt"
	"strconv"
)

// Entity is the persistence-layer view of a stored record. ID is the
// internal numeric key used for uniqueness exclusion; UUID is the public
// identifier controllers exchange with clients. Fields carries the full
// column set.
type Entity struct {
	Fields map[string]any
	UUID   string
	ID     int64
}

// Field returns a named column value.
func (e *Entity) Field(name string) (any, bool) {
	v, ok := e.Fields[name]
	return v, ok
}

// StatusToggle flips each entity's current status between active and
// inactive instead of assigning a fixed value.
const StatusToggle Status = -1

// Status is an entity status value in the range 0..10, or StatusToggle.
type Status int

// Valid reports whether the status is in the accepted set.
func (s Status) Valid() bool {
	return s == StatusToggle || (s >= 0 && s <= 10)
}

// Value returns the wire representation: "toggle" or the numeric value.
func (s Status) Value() any {
	if s == StatusToggle {
		return "toggle"
	}
	return int(s)
}

// ParseStatus converts a request value into a Status. Accepted inputs are
// integers and numeric strings in 0..10, and the string "toggle".
func ParseStatus(v any) (Status, error) {
	var s Status
	switch value := v.(type) {
	case Status:
		if !value.Valid() {
			return 0, fmt.Errorf("%w: %v", ErrInvalidStatus, v)
		}
		return value, nil
	case int:
		s = Status(value)
	case int64:
		s = Status(value)
	case float64:
		if value != float64(int(value)) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidStatus, v)
		}
		s = Status(value)
	case string:
		if value == "toggle" {
			return StatusToggle, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, value)
		}
		s = Status(n)
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidStatus, v)
	}
	// Numeric inputs may not address the toggle sentinel.
	if s < 0 || s > 10 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidStatus, v)
	}
	return s, nil
}
