// Package common defines shared constants and errors used across the
// skillshare client packages. Callers should use errors.Is / errors.As to
// match these values.
package common

import "errors"

// ErrLocalValidation marks input rejected on the client before any request
// is sent.
var ErrLocalValidation = errors.New("local validation error")

// ValidationError carries the single user-facing message of a rejected
// submission.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrLocalValidation }

// Invalid returns a *ValidationError with msg.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}
