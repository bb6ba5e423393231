package controller

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-regform/pkg/registration"
)

// DefaultSubmitDelay is the simulated network round-trip.
const DefaultSubmitDelay = 2000 * time.Millisecond

// Submitter performs one asynchronous operation for fully validated data.
type Submitter interface {
	Submit(ctx context.Context, data registration.FormData) (Ack, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, data registration.FormData) (Ack, error)

// Submit calls fn.
func (fn SubmitterFunc) Submit(ctx context.Context, data registration.FormData) (Ack, error) {
	return fn(ctx, data)
}

// SimulatedSubmitter stands in for a backend: it waits Delay and then
// acknowledges, or returns Fail when set.
type SimulatedSubmitter struct {
	Delay time.Duration
	Fail  error
	Now   func() time.Time
}

// NewSimulatedSubmitter returns a submitter using DefaultSubmitDelay.
func NewSimulatedSubmitter() *SimulatedSubmitter {
	return &SimulatedSubmitter{Delay: DefaultSubmitDelay}
}

// Submit blocks for the configured delay.
func (s *SimulatedSubmitter) Submit(ctx context.Context, _ registration.FormData) (Ack, error) {
	if s == nil {
		return Ack{}, errors.New("controller: simulated submitter is nil")
	}
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Ack{}, ctx.Err()
		case <-timer.C:
		}
	}
	if s.Fail != nil {
		return Ack{}, s.Fail
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Ack{ID: uuid.NewString(), ReceivedAt: now()}, nil
}
