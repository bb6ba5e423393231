package controller

import "github.com/goliatone/go-regform/pkg/registration"

// EventType tags the Event variants.
type EventType string

const (
	EventFieldChanged        EventType = "fieldChanged"
	EventFieldBlurred        EventType = "fieldBlurred"
	EventValidationRequested EventType = "validationRequested"
	EventSubmitRequested     EventType = "submitRequested"
	EventSubmitResolved      EventType = "submitResolved"
	EventSubmitFailed        EventType = "submitFailed"
	EventResetRequested      EventType = "resetRequested"
)

// Event is a state transition input folded by Reducer.
type Event interface {
	Type() EventType
}

// FieldChanged records user input without re-validating.
type FieldChanged struct {
	Field registration.FieldName
	Value string
}

// FieldBlurred marks a field touched and validates it.
type FieldBlurred struct {
	Field registration.FieldName
	Value string
}

// ValidationRequested validates every field and touches them all.
type ValidationRequested struct{}

// SubmitRequested validates the form and, when valid, starts submitting.
type SubmitRequested struct{}

// SubmitResolved completes an in-flight submission.
type SubmitResolved struct {
	Ack Ack
}

// SubmitFailed aborts an in-flight submission.
type SubmitFailed struct {
	Err error
}

// ResetRequested returns the session to the empty form.
type ResetRequested struct{}

func (FieldChanged) Type() EventType        { return EventFieldChanged }
func (FieldBlurred) Type() EventType        { return EventFieldBlurred }
func (ValidationRequested) Type() EventType { return EventValidationRequested }
func (SubmitRequested) Type() EventType     { return EventSubmitRequested }
func (SubmitResolved) Type() EventType      { return EventSubmitResolved }
func (SubmitFailed) Type() EventType        { return EventSubmitFailed }
func (ResetRequested) Type() EventType      { return EventResetRequested }
