package render_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
)

func TestNewView_Form(t *testing.T) {
	now := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.Local)
	state := controller.NewState()
	state.Data.FullName = "<b>Jane</b>"
	state.Data.TimeSlot = "flexible"
	state.Errors[registration.FieldFullName] = registration.MsgFullNameInvalid
	state.Touched[registration.FieldFullName] = true
	state.Errors[registration.FieldEmail] = registration.MsgEmailRequired
	state.SubmitError = "  try again  "

	view := render.NewView(model.MustDefault(), state, render.RenderOptions{
		Action:         "/",
		Now:            now,
		RefreshSeconds: 3,
	})

	if view.Title != "Registration" || view.Action != "/" {
		t.Fatalf("unexpected header fields: %+v", view)
	}
	if view.RefreshSeconds != 0 {
		t.Fatalf("refresh only applies while submitting, got %d", view.RefreshSeconds)
	}
	if diff := cmp.Diff([]string{"try again"}, view.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	byName := make(map[string]render.FieldView, len(view.Fields))
	for _, field := range view.Fields {
		byName[field.Name] = field
	}
	if got := byName["fullName"]; got.Value != "<b>Jane</b>" || got.Error != registration.MsgFullNameInvalid {
		t.Fatalf("fullName view: %+v", got)
	}
	if got := byName["email"].Error; got != "" {
		t.Fatalf("untouched email error leaked: %q", got)
	}
	if got := byName["dateOfJoining"].Min; got != "2025-03-10" {
		t.Fatalf("date min: got %q", got)
	}
	if byName["fullName"].Min != "" {
		t.Fatal("min applies to date inputs only")
	}

	var selected []string
	for _, option := range byName["timeSlot"].Options {
		if option.Selected {
			selected = append(selected, option.Value)
		}
	}
	if diff := cmp.Diff([]string{"flexible"}, selected); diff != "" {
		t.Fatalf("selected mismatch (-want +got):\n%s", diff)
	}
}

func TestNewView_Lifecycle(t *testing.T) {
	state := controller.NewState()
	state.Submission = controller.Submitting
	view := render.NewView(model.MustDefault(), state, render.RenderOptions{RefreshSeconds: 2})
	if !view.Submitting || view.Submitted || view.RefreshSeconds != 2 {
		t.Fatalf("submitting view: %+v", view)
	}

	state.Submission = controller.Submitted
	state.Ack = &controller.Ack{ID: "ack-9"}
	view = render.NewView(model.MustDefault(), state, render.RenderOptions{RefreshSeconds: 2})
	if !view.Submitted || view.AckID != "ack-9" || view.RefreshSeconds != 0 {
		t.Fatalf("submitted view: %+v", view)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{"a", " b "}, "", "a", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if got := render.MergeFormErrors(nil, " "); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
