package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-regform/internal/config"
	"github.com/goliatone/go-regform/internal/server"
	"github.com/goliatone/go-regform/pkg/contract"
	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

const usage = `usage: regform <command> [flags]

commands:
  tui     fill in the registration form in the terminal
  serve   host the registration form over HTTP
  render  write the empty form with a renderer
  schema  print the submission contract as OpenAPI JSON
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet("regform "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Definition, "definition", cfg.Definition, "form definition YAML (embedded default if empty)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	switch cmd {
	case "tui":
		fs.StringVar(&cfg.Output, "output", cfg.Output, "output format: json, form or pretty")
		fs.DurationVar(&cfg.SubmitDelay, "delay", cfg.SubmitDelay, "simulated submission delay")
	case "serve":
		fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
		fs.DurationVar(&cfg.SubmitDelay, "delay", cfg.SubmitDelay, "simulated submission delay")
		fs.IntVar(&cfg.RefreshSeconds, "refresh", cfg.RefreshSeconds, "page refresh interval while submitting (seconds)")
		fs.StringVar(&cfg.ThemeVariant, "theme-variant", cfg.ThemeVariant, "default theme variant (e.g. dark)")
	case "render":
		fs.StringVar(&cfg.ThemeVariant, "theme-variant", cfg.ThemeVariant, "default theme variant (e.g. dark)")
	case "schema":
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
	rendererName := fs.String("renderer", server.DefaultRenderer, "renderer used by the render command")
	outPath := fs.String("o", "", "output file (stdout if empty)")

	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		fmt.Fprintln(stderr, err)
		return 1
	}

	switch cmd {
	case "tui":
		err = a.runTUI(ctx, stdout, *outPath)
	case "serve":
		err = a.runServe(ctx)
	case "render":
		err = a.runRender(ctx, stdout, *rendererName, *outPath)
	case "schema":
		err = writeOutput(stdout, *outPath, mustJSON(contract.Document()))
	}
	if err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, tui.ErrDeclined) {
			fmt.Fprintln(stderr, err)
			return 130
		}
		logger.Error("command failed", zap.String("command", cmd), zap.Error(err))
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func (a *app) runTUI(ctx context.Context, stdout io.Writer, outPath string) error {
	format, ok := tui.ParseOutputFormat(a.cfg.Output)
	if !ok {
		return fmt.Errorf("unsupported output format %q", a.cfg.Output)
	}
	session, err := tui.NewSession(a.newController(), a.form,
		tui.WithOutput(stdout),
		tui.WithOutputFormat(format),
		tui.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	out, err := session.Run(ctx)
	if err != nil {
		return err
	}
	return writeOutput(stdout, outPath, out)
}

func (a *app) runServe(ctx context.Context) error {
	registry, err := a.gen.Registry()
	if err != nil {
		return err
	}
	srv, err := server.New(a.form, registry,
		server.WithLogger(a.logger),
		server.WithControllerFactory(a.newController),
		server.WithRefreshSeconds(a.cfg.RefreshSeconds),
		server.WithAssets(vanilla.AssetsFS()),
		server.WithThemeResolver(a.gen.Theme),
	)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, a.cfg.Addr)
}

func (a *app) runRender(ctx context.Context, stdout io.Writer, name, outPath string) error {
	out, err := a.gen.Generate(ctx, orchestrator.Request{
		Renderer:      name,
		RenderOptions: render.RenderOptions{Action: "/", ResetAction: "/reset", Now: time.Now()},
	})
	if err != nil {
		return err
	}
	return writeOutput(stdout, outPath, out)
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return err
		}
		_, err := fmt.Fprintln(stdout)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(stdout, "written to %s\n", path)
	return nil
}

func mustJSON(v any) []byte {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	return out
}
