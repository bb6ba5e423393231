// Package regform is the top-level entry point for embedding the registration
// form: build a controller per session, render it, and serve the bundled
// templates and stylesheet.
package regform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

// Controller aliases the registration form controller.
type Controller = controller.Controller

// State aliases the controller's serialisable snapshot.
type State = controller.State

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// NewController builds a form controller; see controller.New for options.
func NewController(options ...controller.Option) *Controller {
	return controller.New(options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders state with the default HTML renderer.
func GenerateHTML(ctx context.Context, state State, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Renderer:      "vanilla",
		State:         &state,
		RenderOptions: opts,
	})
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the bundled stylesheet for mounting under /assets/.
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
