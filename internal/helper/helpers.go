package helper

import (
	"errors"
	"fmt"
)

var ErrUnexpectedType = errors.New("unexpected type")

// TypedValueOf safely asserts raw to the expected type T, treating nil as
// the zero value of T. Returns an error if the type assertion fails.
func TypedValueOf[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}

	val, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T, want %T", ErrUnexpectedType, raw, zero)
	}
	return val, nil
}
