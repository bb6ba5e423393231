package orchestrator_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
	"github.com/goliatone/go-regform/pkg/testsupport"
)

func TestGenerate_Defaults(t *testing.T) {
	gen := orchestrator.New()

	registry, err := gen.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}

	out, err := gen.Generate(testsupport.Context(), orchestrator.Request{
		RenderOptions: render.RenderOptions{Now: testsupport.Now},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `min="2025-03-10"`) {
		t.Fatalf("expected html form, got:\n%s", out)
	}
}

func TestGenerate_RendersState(t *testing.T) {
	state := controller.NewState()
	state.Submission = controller.Submitted

	out, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Renderer: "tui",
		State:    &state,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "Success!") {
		t.Fatalf("expected success view, got %q", out)
	}
}

func TestGenerate_UnknownRenderer(t *testing.T) {
	_, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{Renderer: "pdf"})
	if err == nil || !strings.Contains(err.Error(), `renderer "pdf"`) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orchestrator.New().Generate(ctx, orchestrator.Request{}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestNew_DefinitionOverride(t *testing.T) {
	files := fstest.MapFS{
		"broken.yaml": {Data: []byte("fields: [{name: nickname}]\n")},
	}
	gen := orchestrator.New(orchestrator.WithDefinition(files, "broken.yaml"))
	if _, err := gen.Form(); err == nil {
		t.Fatal("expected definition error")
	}
	if _, err := gen.Generate(testsupport.Context(), orchestrator.Request{}); err == nil {
		t.Fatal("expected generate to surface the definition error")
	}
}

func TestNew_WithForm(t *testing.T) {
	form := model.MustDefault()
	form.Title = "Join the team"

	gen := orchestrator.New(orchestrator.WithForm(form))
	got, err := gen.Form()
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if got.Title != "Join the team" {
		t.Fatalf("expected supplied form, got %q", got.Title)
	}
}

func TestNew_CustomTheme(t *testing.T) {
	gen := orchestrator.New(
		orchestrator.WithDefaultRenderer("tui"),
		orchestrator.WithTextTheme(tui.Theme{SuccessPrefix: "OK "}),
	)
	state := controller.NewState()
	state.Submission = controller.Submitted

	out, err := gen.Generate(testsupport.Context(), orchestrator.Request{State: &state})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(string(out), "OK Success!") {
		t.Fatalf("expected themed output, got %q", out)
	}
}
