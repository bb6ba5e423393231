package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/render"
)

// Renderer implements render.Renderer as a plain-text view of a session. The
// interactive Session prints it between prompts.
type Renderer struct {
	theme Theme
}

var _ render.Renderer = (*Renderer)(nil)

// NewRenderer constructs a text renderer using theme for message prefixes.
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the text media type.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes either a summary of the form or the success view.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, state controller.State, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := render.NewView(form, state, opts)

	var b strings.Builder
	if view.Submitted {
		fmt.Fprintf(&b, "%s%s\n", r.theme.SuccessPrefix, view.SuccessTitle)
		fmt.Fprintln(&b, view.SuccessMessage)
		if view.AckID != "" {
			fmt.Fprintf(&b, "Reference: %s\n", view.AckID)
		}
		return []byte(b.String()), nil
	}

	fmt.Fprintln(&b, view.Title)
	fmt.Fprintln(&b, strings.Repeat("-", len([]rune(view.Title))))
	for _, field := range view.Fields {
		fmt.Fprintf(&b, "%s: %s\n", field.Label, displayValue(field))
		if field.Error != "" {
			fmt.Fprintf(&b, "  %s%s\n", r.theme.ErrorPrefix, field.Error)
		}
	}
	for _, message := range view.FormErrors {
		fmt.Fprintf(&b, "%s%s\n", r.theme.ErrorPrefix, message)
	}
	if view.Submitting {
		fmt.Fprintf(&b, "%s%s\n", r.theme.InfoPrefix, view.SubmittingLabel)
	}
	return []byte(b.String()), nil
}

func displayValue(field render.FieldView) string {
	for _, option := range field.Options {
		if option.Selected {
			return option.Label
		}
	}
	if field.Value == "" {
		return "-"
	}
	return field.Value
}
