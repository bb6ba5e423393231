package controller

import (
	"github.com/goliatone/go-regform/pkg/registration"
)

// Reducer folds events into state. It never mutates its input.
type Reducer struct {
	Validator *registration.Validator
}

// NewReducer builds a reducer around v, defaulting to a wall-clock validator.
func NewReducer(v *registration.Validator) Reducer {
	if v == nil {
		v = registration.NewValidator()
	}
	return Reducer{Validator: v}
}

// Reduce applies event to state and returns the next state. Events that are
// not legal in the current submission state return state unchanged.
func (r Reducer) Reduce(state State, event Event) State {
	next := state.Clone()
	if next.Submission == "" {
		next.Submission = Idle
	}

	switch e := event.(type) {
	case FieldChanged:
		if next.Submission != Idle || !next.Data.Set(e.Field, e.Value) {
			return state
		}
		if next.Errors.Has(e.Field) {
			delete(next.Errors, e.Field)
		}
	case FieldBlurred:
		if next.Submission != Idle || !next.Data.Set(e.Field, e.Value) {
			return state
		}
		next.Touched[e.Field] = true
		if msg := r.validator().ValidateField(e.Field, e.Value); msg != "" {
			next.Errors[e.Field] = msg
		} else {
			delete(next.Errors, e.Field)
		}
	case ValidationRequested:
		if next.Submission != Idle {
			return state
		}
		r.validateAll(&next)
	case SubmitRequested:
		if next.Submission != Idle {
			return state
		}
		next.SubmitError = ""
		if r.validateAll(&next) {
			next.Submission = Submitting
		}
	case SubmitResolved:
		if next.Submission != Submitting {
			return state
		}
		ack := e.Ack
		next.Ack = &ack
		next.Submission = Submitted
	case SubmitFailed:
		if next.Submission != Submitting {
			return state
		}
		next.Submission = Idle
		next.SubmitError = submitFailureMessage
	case ResetRequested:
		if next.Submission == Submitting {
			return state
		}
		return NewState()
	default:
		return state
	}
	return next
}

// Valid reports whether every field of state passes validation.
func (r Reducer) Valid(state State) bool {
	return len(r.validator().ValidateAll(state.Data)) == 0
}

func (r Reducer) validateAll(state *State) bool {
	state.Errors = r.validator().ValidateAll(state.Data)
	for _, name := range registration.Fields() {
		state.Touched[name] = true
	}
	return len(state.Errors) == 0
}

func (r Reducer) validator() *registration.Validator {
	if r.Validator == nil {
		return registration.NewValidator()
	}
	return r.Validator
}

const submitFailureMessage = "We could not complete your registration. Please try again."
