package orchestrator_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
	"github.com/goliatone/go-regform/pkg/testsupport"
)

func defaultSelector(t *testing.T, variant string) *orchestrator.ManifestSelector {
	t.Helper()
	selector, err := orchestrator.NewManifestSelector(orchestrator.DefaultThemeName, variant, orchestrator.DefaultThemeManifest("/assets"))
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	return selector
}

func TestTheme_ResolvesDefaultManifest(t *testing.T) {
	gen := orchestrator.New(orchestrator.WithThemeSelector(defaultSelector(t, "dark")))

	cfg, err := gen.Theme("", "")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if cfg.Theme != orchestrator.DefaultThemeName || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection: %s/%s", cfg.Theme, cfg.Variant)
	}
	if got := cfg.AssetURL(vanilla.ThemeAssetStylesheet); got != "/assets/regform.css" {
		t.Fatalf("stylesheet url = %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve empty, got %q", got)
	}
	wantVars := map[string]string{
		"--brand":   "#60a5fa",
		"--danger":  "#f87171",
		"--surface": "#0f172a",
		"--text":    "#e2e8f0",
	}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Partials[vanilla.ThemePartialForm]; got != vanilla.FormTemplate {
		t.Fatalf("form partial = %q", got)
	}
}

func TestTheme_WithoutSelector(t *testing.T) {
	cfg, err := orchestrator.New().Theme("anything", "")
	if err != nil || cfg != nil {
		t.Fatalf("expected nil config without selector, got %+v, %v", cfg, err)
	}
}

func TestNewManifestSelector_Errors(t *testing.T) {
	if _, err := orchestrator.NewManifestSelector("missing", "", orchestrator.DefaultThemeManifest("")); !errors.Is(err, orchestrator.ErrUnknownTheme) {
		t.Fatalf("expected unknown theme, got %v", err)
	}
	if _, err := orchestrator.NewManifestSelector(orchestrator.DefaultThemeName, "sepia", orchestrator.DefaultThemeManifest("")); !errors.Is(err, orchestrator.ErrUnknownVariant) {
		t.Fatalf("expected unknown variant, got %v", err)
	}
	if _, err := orchestrator.NewManifestSelector("", "",
		orchestrator.DefaultThemeManifest(""),
		orchestrator.DefaultThemeManifest(""),
	); err == nil || !strings.Contains(err.Error(), "registered twice") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestManifestSelector_Select(t *testing.T) {
	cdn := &theme.Manifest{
		Name:    "cdn",
		Version: "1.0.0",
		Templates: map[string]string{
			vanilla.ThemePartialForm: vanilla.FormTemplate,
		},
		Tokens: map[string]string{"brand": "#000000"},
		Assets: theme.Assets{
			Prefix: "https://cdn.example.com/regform/",
			Files:  map[string]string{vanilla.ThemeAssetStylesheet: "base.css"},
		},
		Variants: map[string]theme.Variant{
			"print": {
				Assets: theme.Assets{Files: map[string]string{vanilla.ThemeAssetStylesheet: "print.css"}},
			},
		},
	}
	selector, err := orchestrator.NewManifestSelector(orchestrator.DefaultThemeName, "dark", orchestrator.DefaultThemeManifest("/assets"), cdn)
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	gen := orchestrator.New(orchestrator.WithThemeSelector(selector))

	cases := []struct {
		name, variant string
		wantVariant   string
		wantHref      string
	}{
		{"cdn", "", "", "https://cdn.example.com/regform/base.css"},
		{"cdn", "print", "print", "https://cdn.example.com/regform/print.css"},
		{orchestrator.DefaultThemeName, "", "dark", "/assets/regform.css"},
	}
	for _, tc := range cases {
		cfg, err := gen.Theme(tc.name, tc.variant)
		if err != nil {
			t.Fatalf("theme %s/%s: %v", tc.name, tc.variant, err)
		}
		if cfg.Variant != tc.wantVariant {
			t.Fatalf("variant = %q, want %q", cfg.Variant, tc.wantVariant)
		}
		if got := cfg.AssetURL(vanilla.ThemeAssetStylesheet); got != tc.wantHref {
			t.Fatalf("stylesheet = %q, want %q", got, tc.wantHref)
		}
	}

	if _, err := gen.Theme("cdn", "dark"); !errors.Is(err, orchestrator.ErrUnknownVariant) {
		t.Fatalf("expected unknown variant, got %v", err)
	}
	if _, err := gen.Theme("neon", ""); !errors.Is(err, orchestrator.ErrUnknownTheme) {
		t.Fatalf("expected unknown theme, got %v", err)
	}
}

func TestGenerate_AppliesTheme(t *testing.T) {
	gen := orchestrator.New(orchestrator.WithThemeSelector(defaultSelector(t, "")))

	out, err := gen.Generate(testsupport.Context(), orchestrator.Request{
		RenderOptions: render.RenderOptions{Now: testsupport.Now},
		ThemeVariant:  "dark",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	page := string(out)
	for _, want := range []string{
		`<link rel="stylesheet" href="/assets/regform.css">`,
		`<body data-theme="regform" data-variant="dark">`,
		"--brand: #60a5fa;",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %s in output:\n%s", want, page)
		}
	}

	if _, err := gen.Generate(testsupport.Context(), orchestrator.Request{ThemeName: "neon"}); !errors.Is(err, orchestrator.ErrUnknownTheme) {
		t.Fatalf("expected unknown theme error, got %v", err)
	}
}

func TestGenerate_ThemePartialOverridesPage(t *testing.T) {
	manifest := orchestrator.DefaultThemeManifest("/assets")
	manifest.Templates[vanilla.ThemePartialForm] = "templates/compact.tmpl"
	selector, err := orchestrator.NewManifestSelector(orchestrator.DefaultThemeName, "", manifest)
	if err != nil {
		t.Fatalf("selector: %v", err)
	}

	templates := fstest.MapFS{
		"templates/form.tmpl":    {Data: []byte("full")},
		"templates/compact.tmpl": {Data: []byte("compact {{ theme }} {{ stylesheet }}")},
	}
	gen := orchestrator.New(
		orchestrator.WithThemeSelector(selector),
		orchestrator.WithVanillaOptions(vanilla.WithTemplatesFS(templates)),
	)

	out, err := gen.Generate(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := string(out); got != "compact regform /assets/regform.css" {
		t.Fatalf("unexpected output %q", got)
	}
}
