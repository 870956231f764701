package cache

import "errors"

var (
	// ErrNotFound is returned when a key does not exist or has expired.
	ErrNotFound = errors.New("cache: key not found")

	// ErrClosed is returned when operating on a closed cache.
	ErrClosed = errors.New("cache: closed")

	// ErrMarshal wraps value serialization failures.
	ErrMarshal = errors.New("cache: marshal failed")

	// ErrUnmarshal wraps value deserialization failures.
	ErrUnmarshal = errors.New("cache: unmarshal failed")
)
