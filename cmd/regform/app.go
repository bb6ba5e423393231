package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/goliatone/go-regform/internal/config"
	"github.com/goliatone/go-regform/pkg/contract"
	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/orchestrator"
)

// app holds the collaborators shared by every subcommand.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	gen    *orchestrator.Orchestrator
	form   model.FormModel
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	themes, err := orchestrator.NewManifestSelector(
		orchestrator.DefaultThemeName,
		cfg.ThemeVariant,
		orchestrator.DefaultThemeManifest("/assets"),
	)
	if err != nil {
		return nil, err
	}

	options := []orchestrator.Option{
		orchestrator.WithThemeSelector(themes),
	}
	if cfg.Definition != "" {
		options = append(options, orchestrator.WithDefinition(
			os.DirFS(filepath.Dir(cfg.Definition)),
			filepath.Base(cfg.Definition),
		))
	}

	gen := orchestrator.New(options...)
	form, err := gen.Form()
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	return &app{cfg: cfg, logger: logger, gen: gen, form: form}, nil
}

// newController builds a controller whose submissions are checked against the
// exported contract before the simulated backend sees them.
func (a *app) newController() *controller.Controller {
	backend := &controller.SimulatedSubmitter{Delay: a.cfg.SubmitDelay}
	return controller.New(
		controller.WithSubmitter(contract.Guard(backend)),
		controller.WithLogger(a.logger),
	)
}
