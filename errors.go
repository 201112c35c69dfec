package umbral

import (
	"fmt"
)

// ErrorCategory groups scheme errors by the operation they arise from.
type ErrorCategory string

const (
	ErrorCategoryConfiguration ErrorCategory = "configuration"
	ErrorCategoryThreshold     ErrorCategory = "threshold"
	ErrorCategoryEncryption    ErrorCategory = "encryption"
	ErrorCategoryDelegation    ErrorCategory = "delegation"
	ErrorCategoryReencryption  ErrorCategory = "reencryption"
	ErrorCategoryDecryption    ErrorCategory = "decryption"
	ErrorCategoryCryptographic ErrorCategory = "cryptographic"
	ErrorCategorySerialization ErrorCategory = "serialization"
)

// Error is the structured error type returned by all scheme operations.
// None of these errors are retryable without changing an input: repeating a
// cryptographic operation on the same arguments yields the same verdict.
type Error struct {
	Category ErrorCategory
	Code     string
	Message  string
	Details  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so wrapped copies still compare equal to the
// package sentinels under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithDetails returns a copy of the error carrying extra detail text.
func (e *Error) WithDetails(format string, args ...interface{}) *Error {
	clone := *e
	clone.Details = fmt.Sprintf(format, args...)
	return &clone
}

// WithCause returns a copy of the error wrapping an underlying cause.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.Cause = cause
	return &clone
}

// NewError creates a new structured scheme error.
func NewError(category ErrorCategory, code, message string) *Error {
	return &Error{Category: category, Code: code, Message: message}
}

var (
	// ErrInvalidThreshold rejects malformed m/n delegation parameters
	// before any cryptographic work is done.
	ErrInvalidThreshold = NewError(
		ErrorCategoryThreshold, "INVALID_THRESHOLD",
		"threshold must satisfy 1 <= m <= n")

	// ErrAuthenticationFailure means a decrypt step's integrity check did
	// not pass: wrong keys, a tampered ciphertext, or a mismatched
	// capsule/ciphertext pair. There are no partial plaintexts.
	ErrAuthenticationFailure = NewError(
		ErrorCategoryDecryption, "AUTHENTICATION_FAILURE",
		"ciphertext authentication failed")

	// ErrInsufficientFragments means the supplied capsule fragments do not
	// form a valid threshold set: fewer than m distinct ids, or fragments
	// that do not reconstruct the delegated capability.
	ErrInsufficientFragments = NewError(
		ErrorCategoryDecryption, "INSUFFICIENT_FRAGMENTS",
		"not enough valid distinct capsule fragments to reconstruct the key")

	// ErrFragmentMismatch means the fragment set mixes fragments from
	// different delegation batches.
	ErrFragmentMismatch = NewError(
		ErrorCategoryDecryption, "FRAGMENT_MISMATCH",
		"capsule fragments originate from different delegations")

	// ErrInvalidCapsule means the capsule's public consistency equation
	// does not hold.
	ErrInvalidCapsule = NewError(
		ErrorCategoryReencryption, "INVALID_CAPSULE",
		"capsule consistency check failed")

	// ErrParametersMismatch means the arguments were created under
	// different group parameters.
	ErrParametersMismatch = NewError(
		ErrorCategoryConfiguration, "PARAMETERS_MISMATCH",
		"arguments use different group parameters")

	// ErrEntropyFailure means the entropy source failed; this is fatal.
	ErrEntropyFailure = NewError(
		ErrorCategoryCryptographic, "ENTROPY_FAILURE",
		"failed to draw secure randomness")

	// ErrInvalidEncoding rejects byte inputs that do not decode to a
	// well-formed artifact.
	ErrInvalidEncoding = NewError(
		ErrorCategorySerialization, "INVALID_ENCODING",
		"malformed serialized input")
)
