package tui

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/testsupport"
)

func TestRenderer_EmptyFormGolden(t *testing.T) {
	r := NewRenderer(DefaultTheme)
	output, err := r.Render(testsupport.Context(), model.MustDefault(), controller.NewState(), render.RenderOptions{Now: testsupport.Now})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	goldenPath := filepath.Join("testdata", "empty_form.golden.txt")
	if testsupport.WriteMaybeGolden(t, goldenPath, output) {
		return
	}

	want := testsupport.MustReadGolden(t, goldenPath)
	if diff := testsupport.CompareGolden(string(want), string(output)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_SubmittingShowsProgress(t *testing.T) {
	state := controller.NewState()
	state.Submission = controller.Submitting

	output, err := NewRenderer(DefaultTheme).Render(testsupport.Context(), model.MustDefault(), state, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(output); got[len(got)-len("Processing...\n"):] != "Processing...\n" {
		t.Fatalf("expected trailing progress line, got:\n%s", got)
	}
}
