package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-regform/pkg/registration"
)

var (
	// ErrUnknownField is returned for input names outside the form.
	ErrUnknownField = errors.New("controller: unknown field")
	// ErrSubmitting rejects user events while a submission is in flight.
	ErrSubmitting = errors.New("controller: submission in progress")
	// ErrSubmitted rejects form edits once the success view is shown.
	ErrSubmitted = errors.New("controller: form already submitted")
	// ErrInvalid signals that a submit attempt failed validation.
	ErrInvalid = errors.New("controller: form is invalid")
)

// ValidationError carries the field errors revealed by a submit attempt.
type ValidationError struct {
	Errors registration.FieldErrors
}

func (e *ValidationError) Error() string {
	fields := e.Errors.Fields()
	names := make([]string, 0, len(fields))
	for _, name := range fields {
		names = append(names, string(name))
	}
	return fmt.Sprintf("controller: form is invalid: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// SubmitError wraps a fault raised by the Submitter.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("controller: submit: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
