package repository

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound is returned when an id or group does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a field that cannot be stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func notFound(kind string, key any) error {
	return fmt.Errorf("%s %v: %w", kind, key, ErrNotFound)
}

func itoa(n int) string { return strconv.Itoa(n) }
