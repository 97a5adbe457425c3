package normalize

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidTime   = errors.New("invalid time")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrFieldRequired = errors.New("field required")
)

// FieldError ties a validation failure to the record field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
