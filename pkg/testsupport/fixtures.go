package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/registration"
)

// Now is the reference instant fixtures are anchored to: a Monday morning in
// the local zone.
var Now = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.Local)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Clock returns a clock frozen at t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Validator returns a validator whose "today" is the day of Now.
func Validator() *registration.Validator {
	return registration.NewValidator(registration.WithClock(Clock(Now)))
}

// ValidData returns a registration that passes every rule relative to Now.
func ValidData() registration.FormData {
	return registration.FormData{
		FullName:      "Jane Doe",
		Email:         "jane@example.com",
		PhoneNumber:   "+1 (555) 123-4567",
		Location:      "Berlin",
		DateOfJoining: Now.AddDate(0, 0, 2).Format(registration.DateLayout),
		TimeSlot:      "8-hours",
	}
}

// Fill applies every field of data to c as change events.
func Fill(t *testing.T, c *controller.Controller, data registration.FormData) {
	t.Helper()
	for _, name := range registration.Fields() {
		if err := c.HandleChange(name, data.Get(name)); err != nil {
			t.Fatalf("HandleChange(%s): %v", name, err)
		}
	}
}

// AckSubmitter acknowledges every submission immediately with id.
func AckSubmitter(id string) controller.Submitter {
	return controller.SubmitterFunc(func(context.Context, registration.FormData) (controller.Ack, error) {
		return controller.Ack{ID: id, ReceivedAt: Now}, nil
	})
}

// GatedSubmitter blocks every submission until release is called, so tests can
// observe the Submitting state.
func GatedSubmitter(id string) (submitter controller.Submitter, release func()) {
	gate := make(chan struct{})
	var once sync.Once
	submitter = controller.SubmitterFunc(func(context.Context, registration.FormData) (controller.Ack, error) {
		<-gate
		return controller.Ack{ID: id, ReceivedAt: Now}, nil
	})
	return submitter, func() { once.Do(func() { close(gate) }) }
}

// Eventually polls cond until it holds or the timeout elapses.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %s", timeout)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
