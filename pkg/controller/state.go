package controller

import (
	"time"

	"github.com/goliatone/go-regform/pkg/registration"
)

// SubmissionState selects the view and whether the submit control is enabled.
type SubmissionState string

const (
	Idle       SubmissionState = "idle"
	Submitting SubmissionState = "submitting"
	Submitted  SubmissionState = "submitted"
)

// Ack acknowledges an accepted submission.
type Ack struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// State is the serialisable snapshot of a form session.
type State struct {
	Data        registration.FormData           `json:"data"`
	Errors      registration.FieldErrors        `json:"errors"`
	Touched     map[registration.FieldName]bool `json:"touched"`
	Submission  SubmissionState                 `json:"submission"`
	SubmitError string                          `json:"submitError,omitempty"`
	Ack         *Ack                            `json:"ack,omitempty"`
}

// NewState returns the empty initial state.
func NewState() State {
	return State{
		Errors:     make(registration.FieldErrors),
		Touched:    make(map[registration.FieldName]bool),
		Submission: Idle,
	}
}

// Clone deep-copies the maps so the result can be mutated independently.
func (s State) Clone() State {
	out := s
	out.Errors = make(registration.FieldErrors, len(s.Errors))
	for name, msg := range s.Errors {
		out.Errors[name] = msg
	}
	out.Touched = make(map[registration.FieldName]bool, len(s.Touched))
	for name, touched := range s.Touched {
		out.Touched[name] = touched
	}
	if s.Ack != nil {
		ack := *s.Ack
		out.Ack = &ack
	}
	return out
}

// VisibleError returns the error for name only when the field is touched.
func (s State) VisibleError(name registration.FieldName) string {
	if !s.Touched[name] {
		return ""
	}
	return s.Errors[name]
}

// VisibleErrors collects every error the user should currently see.
func (s State) VisibleErrors() registration.FieldErrors {
	out := make(registration.FieldErrors)
	for _, name := range registration.Fields() {
		if msg := s.VisibleError(name); msg != "" {
			out[name] = msg
		}
	}
	return out
}

// CanSubmit reports whether the submit control should be enabled.
func (s State) CanSubmit() bool {
	return s.Submission == Idle
}
