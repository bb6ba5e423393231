package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry. Defaults are not added to it.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithDefinition loads the form definition from path within fsys instead of
// the embedded default.
func WithDefinition(fsys fs.FS, path string) Option {
	return func(o *Orchestrator) {
		o.definitionFS = fsys
		o.definitionPath = path
	}
}

// WithForm supplies an already built form model.
func WithForm(form model.FormModel) Option {
	return func(o *Orchestrator) {
		o.form = &form
	}
}

// WithVanillaOptions configures the default HTML renderer.
func WithVanillaOptions(options ...vanilla.Option) Option {
	return func(o *Orchestrator) {
		o.vanillaOptions = append(o.vanillaOptions, options...)
	}
}

// WithTextTheme configures the default text renderer.
func WithTextTheme(theme tui.Theme) Option {
	return func(o *Orchestrator) {
		o.textTheme = &theme
	}
}

// WithThemeSelector resolves a theme for every render that does not carry one.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// Orchestrator coordinates definition loading and rendering.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	definitionFS    fs.FS
	definitionPath  string
	form            *model.FormModel
	vanillaOptions  []vanilla.Option
	textTheme       *tui.Theme
	themeSelector   theme.ThemeSelector
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// State is the session to render. Nil renders the empty initial state.
	State *controller.State

	// RenderOptions carries per-request URLs and clock anchors.
	RenderOptions render.RenderOptions

	// ThemeName and ThemeVariant select a theme when a selector is configured
	// and RenderOptions.Theme is nil. Empty values use the selector defaults.
	ThemeName    string
	ThemeVariant string
}

// Form returns the resolved form definition.
func (o *Orchestrator) Form() (model.FormModel, error) {
	if err := o.initialiseErr; err != nil {
		return model.FormModel{}, err
	}
	return *o.form, nil
}

// Registry returns the renderer registry.
func (o *Orchestrator) Registry() (*render.Registry, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	return o.registry, nil
}

// Theme resolves name and variant through the configured selector. It returns
// nil when no selector is configured.
func (o *Orchestrator) Theme(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return rendererConfig(selection), nil
}

// Generate renders req.State with the requested renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	state := controller.NewState()
	if req.State != nil {
		state = req.State.Clone()
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.Theme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, *o.form, state, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}
	o.defaultsApplied = true

	if o.form == nil {
		var (
			form model.FormModel
			err  error
		)
		if o.definitionFS != nil {
			form, err = model.Load(o.definitionFS, o.definitionPath)
		} else {
			form, err = model.Default()
		}
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load definition: %w", err)
			return
		}
		o.form = &form
	}

	if o.registry == nil {
		o.registry = render.NewRegistry()
		html, err := vanilla.New(o.vanillaOptions...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(html)

		theme := tui.DefaultTheme
		if o.textTheme != nil {
			theme = *o.textTheme
		}
		o.registry.MustRegister(tui.NewRenderer(theme))
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
