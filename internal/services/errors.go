package services

import "errors"

// ErrNotFound signals an unknown slug or id; handlers translate it to 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials covers both unknown-user and wrong-password so the
// response never reveals which field was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// NonFieldErrors is the key used for errors that do not belong to a single
// field (for example a password confirmation mismatch).
const NonFieldErrors = "non_field_errors"

// ValidationError carries field-keyed messages and maps to a 400 response.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	e.Fields[field] = append(e.Fields[field], msgs...)
}

func (e *ValidationError) AddNonField(msgs ...string) {
	e.Add(NonFieldErrors, msgs...)
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Err returns e as an error, or nil when no messages were recorded.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// UpstreamError wraps a weather-provider failure; handlers translate it to
// 503 with a single human-readable message.
type UpstreamError struct {
	Reason string
}

func (e *UpstreamError) Error() string {
	return "Weather API error: " + e.Reason
}
