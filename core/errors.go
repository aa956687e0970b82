package core

import "github.com/pkg/errors"

// FieldError pins a message to one struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries a form-level message plus any per-field breakdown.
// With no Fields it reads as a single inline line; with Fields the web and
// JSON layers render a field->message map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// AsValidation unwraps err to the ValidationError in its cause chain, if any.
func AsValidation(err error) (*ValidationError, bool) {
	vErr, ok := errors.Cause(err).(*ValidationError)
	return vErr, ok
}

type shutdown struct {
	message string
}

// NewShutdownError flags an error as fatal to the process. The HTTP error
// handler reacts to one by triggering a graceful shutdown.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string { return s.message }

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
