package render

import (
	"time"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data renderers use without mutating the
// form model or the session state.
type RenderOptions struct {
	// Action is the URL the rendered form posts to. Empty means the current URL.
	Action string
	// ResetAction is the URL of the reset control shown on the success view.
	ResetAction string
	// Now anchors date hints such as the minimum joining date. Zero means
	// time.Now.
	Now time.Time
	// RefreshSeconds asks HTML renderers to poll while a submission is in
	// flight. Zero disables polling.
	RefreshSeconds int
	// Theme carries the resolved theme selection: asset URLs, tokens and the
	// CSS variables derived from them. Nil renders unthemed output.
	Theme *theme.RendererConfig
}

func (o RenderOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}
