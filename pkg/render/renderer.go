package render

import (
	"context"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
)

// Renderer converts a form definition plus the current session state into a
// byte representation (HTML, plain text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, state controller.State, options RenderOptions) ([]byte, error)
}
