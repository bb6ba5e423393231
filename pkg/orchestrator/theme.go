package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

// DefaultThemeName names the manifest returned by DefaultThemeManifest.
const DefaultThemeName = "regform"

var (
	// ErrUnknownTheme reports a selection naming no registered manifest.
	ErrUnknownTheme = errors.New("orchestrator: unknown theme")
	// ErrUnknownVariant reports a selection naming no variant of its manifest.
	ErrUnknownVariant = errors.New("orchestrator: unknown theme variant")
)

// DefaultThemeManifest describes the bundled stylesheet served under
// assetPrefix. The base palette is light; "dark" overrides the tokens.
func DefaultThemeManifest(assetPrefix string) *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Templates: map[string]string{
			vanilla.ThemePartialForm: vanilla.FormTemplate,
		},
		Tokens: map[string]string{
			"brand":   "#2563eb",
			"danger":  "#dc2626",
			"surface": "#ffffff",
			"text":    "#0f172a",
		},
		Assets: theme.Assets{
			Prefix: assetPrefix,
			Files: map[string]string{
				vanilla.ThemeAssetStylesheet: vanilla.StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand":   "#60a5fa",
					"danger":  "#f87171",
					"surface": "#0f172a",
					"text":    "#e2e8f0",
				},
			},
		},
	}
}

// ManifestSelector resolves selections against a fixed set of manifests.
type ManifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests and returns a selector falling back
// to defaultTheme and defaultVariant when a request names neither.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	registry := theme.NewRegistry()
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if _, dup := s.manifests[manifest.Name]; dup {
			return nil, fmt.Errorf("orchestrator: theme %q registered twice", manifest.Name)
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("orchestrator: register theme %q: %w", manifest.Name, err)
		}
		s.manifests[manifest.Name] = manifest
	}

	if s.defaultTheme == "" {
		return s, nil
	}
	manifest, ok := s.manifests[s.defaultTheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, s.defaultTheme)
	}
	if s.defaultVariant != "" {
		if _, ok := manifest.Variants[s.defaultVariant]; !ok {
			return nil, fmt.Errorf("%w: %q of %q", ErrUnknownVariant, s.defaultVariant, s.defaultTheme)
		}
	}
	return s, nil
}

// Select returns the manifest selection for name and variant. An empty name
// selects the default theme; an empty variant selects the default variant of
// the default theme and the base of any other.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = s.defaultTheme
	}
	if name == "" {
		return nil, fmt.Errorf("%w: no theme requested and no default configured", ErrUnknownTheme)
	}
	if variant == "" && name == s.defaultTheme {
		variant = s.defaultVariant
	}

	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q of %q", ErrUnknownVariant, variant, name)
		}
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

// rendererConfig flattens a selection into what renderers consume. Variant
// tokens, templates and asset files override the manifest's.
func rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(manifest.Templates, nil)
	files := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix
	if variant, ok := manifest.Variants[selection.Variant]; ok && selection.Variant != "" {
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file := strings.TrimSpace(files[key])
		if file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + file
	}
}

func mergeStrings(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}
