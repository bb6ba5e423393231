package controller

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-regform/pkg/registration"
)

// Option configures a Controller.
type Option func(*Controller)

// WithSubmitter replaces the simulated submitter.
func WithSubmitter(submitter Submitter) Option {
	return func(c *Controller) {
		if submitter != nil {
			c.submitter = submitter
		}
	}
}

// WithValidator overrides the validator (and therefore the clock).
func WithValidator(v *registration.Validator) Option {
	return func(c *Controller) {
		if v != nil {
			c.reducer = NewReducer(v)
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller holds one form session. All methods are safe for concurrent use;
// events are applied one at a time.
type Controller struct {
	mu        sync.Mutex
	state     State
	reducer   Reducer
	submitter Submitter
	logger    *zap.Logger
}

// New constructs a controller in the initial empty state.
func New(options ...Option) *Controller {
	c := &Controller{
		state:     NewState(),
		reducer:   NewReducer(nil),
		submitter: NewSimulatedSubmitter(),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Dispatch applies event and returns the resulting state. It is the raw
// reducer entry point; the Handle* methods add argument checks.
func (c *Controller) Dispatch(event Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.reducer.Reduce(c.state, event)
	return c.state.Clone()
}

// HandleChange stores value and clears any existing error for that field.
func (c *Controller) HandleChange(name registration.FieldName, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(name); err != nil {
		return err
	}
	c.state = c.reducer.Reduce(c.state, FieldChanged{Field: name, Value: value})
	return nil
}

// HandleBlur marks the field touched and records its validation result.
func (c *Controller) HandleBlur(name registration.FieldName, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(name); err != nil {
		return err
	}
	c.state = c.reducer.Reduce(c.state, FieldBlurred{Field: name, Value: value})
	return nil
}

// ValidateForm validates all fields, touches all of them and reports whether
// the form is valid. Outside the Idle state it only reports validity.
func (c *Controller) ValidateForm() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Submission != Idle {
		return c.reducer.Valid(c.state)
	}
	c.state = c.reducer.Reduce(c.state, ValidationRequested{})
	return len(c.state.Errors) == 0
}

// HandleSubmit validates the form and, when valid, runs the submitter until it
// resolves. Cancelling ctx does not abort an in-flight submission.
func (c *Controller) HandleSubmit(ctx context.Context) error {
	data, err := c.beginSubmit()
	if err != nil {
		return err
	}
	return c.runSubmit(ctx, data)
}

// SubmitAsync performs validation synchronously (the state is Submitting on
// return when valid) and resolves the submission in the background. The
// returned channel yields exactly one result.
func (c *Controller) SubmitAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	data, err := c.beginSubmit()
	if err != nil {
		done <- err
		close(done)
		return done
	}
	go func() {
		defer close(done)
		done <- c.runSubmit(ctx, data)
	}()
	return done
}

// ResetForm clears data, errors and touched flags and returns to Idle.
func (c *Controller) ResetForm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Submission == Submitting {
		return ErrSubmitting
	}
	c.state = c.reducer.Reduce(c.state, ResetRequested{})
	return nil
}

func (c *Controller) editableLocked(name registration.FieldName) error {
	if !name.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	switch c.state.Submission {
	case Submitting:
		return ErrSubmitting
	case Submitted:
		return ErrSubmitted
	}
	return nil
}

func (c *Controller) beginSubmit() (registration.FormData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state.Submission {
	case Submitting:
		return registration.FormData{}, ErrSubmitting
	case Submitted:
		return registration.FormData{}, ErrSubmitted
	}

	c.state = c.reducer.Reduce(c.state, SubmitRequested{})
	if c.state.Submission != Submitting {
		return registration.FormData{}, &ValidationError{Errors: c.state.Errors.Clone()}
	}
	return c.state.Data, nil
}

func (c *Controller) runSubmit(ctx context.Context, data registration.FormData) error {
	ack, err := c.callSubmitter(context.WithoutCancel(ctx), data)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Error("registration submission failed", zap.Error(err))
		c.state = c.reducer.Reduce(c.state, SubmitFailed{Err: err})
		return &SubmitError{Err: err}
	}

	c.state = c.reducer.Reduce(c.state, SubmitResolved{Ack: ack})
	c.logger.Info("registration submitted",
		zap.String("ack_id", ack.ID),
		zap.String("full_name", data.FullName),
		zap.String("email", data.Email),
		zap.String("time_slot", data.TimeSlot),
		zap.String("date_of_joining", data.DateOfJoining),
	)
	return nil
}

func (c *Controller) callSubmitter(ctx context.Context, data registration.FormData) (ack Ack, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submitter panic: %v", r)
		}
	}()
	return c.submitter.Submit(ctx, data)
}
