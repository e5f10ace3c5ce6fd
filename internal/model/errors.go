package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email is already taken")

	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so that login failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrRateLimited is returned when a verification code was requested
	// again before the cooldown elapsed.
	ErrRateLimited = errors.New("verification code already requested")

	// ErrInvalidOrExpiredOTP covers every way a code can fail to consume:
	// unknown code, email mismatch, operation mismatch, or expiry.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired verification code")

	// ErrGenerationTimeout is returned when a unique code could not be
	// generated within the deadline. Transient; the caller may retry.
	ErrGenerationTimeout = errors.New("verification code generation timed out")

	// ErrUnknownUser is returned when a session is requested for a user
	// id that does not resolve.
	ErrUnknownUser = errors.New("unknown user")

	// ErrOTPConflict is returned by OTPStore.Create when the candidate
	// code or the email collides with a live record. The caller decides
	// whether to retry (code collision) or give up (a concurrent
	// request for the same email won).
	ErrOTPConflict = errors.New("otp code or email already live")
)

// ValidationError reports malformed input per field. It is user-fixable
// and never wraps a storage error.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a ValidationError if possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
