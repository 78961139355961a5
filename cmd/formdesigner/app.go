package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/goliatone/go-formdesigner/internal/config"
	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/form"
	"github.com/goliatone/go-formdesigner/pkg/logger"
	"github.com/goliatone/go-formdesigner/pkg/render"
	"github.com/goliatone/go-formdesigner/pkg/renderers/html"
	"github.com/goliatone/go-formdesigner/pkg/renderers/tui"
	"github.com/goliatone/go-formdesigner/pkg/service"
	"github.com/goliatone/go-formdesigner/pkg/store"
)

type app struct {
	cfg      config.Config
	log      *logger.Logger
	registry *fields.Registry
	stdout   io.Writer
	stderr   io.Writer

	// tuiOptions are appended when the terminal renderer is built.
	tuiOptions []tui.Option

	st  store.Store
	sql *store.SQLStore
}

func newApp(cfg config.Config, log *logger.Logger, stdout, stderr io.Writer) *app {
	return &app{
		cfg:      cfg,
		log:      log,
		registry: fields.NewRegistry(),
		stdout:   stdout,
		stderr:   stderr,
	}
}

// renderers builds the renderer registry with the configured default.
func (a *app) renderers(extra ...tui.Option) (*render.Registry, error) {
	var htmlOptions []html.Option
	htmlOptions = append(htmlOptions, html.WithLogger(a.log))
	for _, href := range a.cfg.Render.Stylesheets {
		htmlOptions = append(htmlOptions, html.WithStylesheet(href))
	}
	htmlRenderer, err := html.New(a.registry, htmlOptions...)
	if err != nil {
		return nil, err
	}

	tuiOptions := []tui.Option{tui.WithLogger(a.log), tui.WithMaxAttempts(a.cfg.Render.MaxAttempts)}
	tuiOptions = append(tuiOptions, a.tuiOptions...)
	tuiRenderer, err := tui.New(a.registry, append(tuiOptions, extra...)...)
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}
	if err := registry.Register(tuiRenderer); err != nil {
		return nil, err
	}
	if a.cfg.Render.Default != "" {
		if err := registry.SetDefault(a.cfg.Render.Default); err != nil {
			return nil, fmt.Errorf("render.default: %w", err)
		}
	}
	return registry, nil
}

// store opens the configured store once. An empty DSN keeps forms in memory
// for the lifetime of the command.
func (a *app) store(ctx context.Context) (store.Store, error) {
	if a.st != nil {
		return a.st, nil
	}
	if a.cfg.Database.DSN == "" {
		a.log.Debugw("using in-memory store")
		a.st = store.NewMemoryStore()
		return a.st, nil
	}
	sqlStore, err := store.OpenSQLite(ctx, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a.log.Debugw("opened sqlite store", "dsn", a.cfg.Database.DSN)
	a.sql = sqlStore
	a.st = sqlStore
	return a.st, nil
}

func (a *app) service(ctx context.Context) (*service.Service, error) {
	st, err := a.store(ctx)
	if err != nil {
		return nil, err
	}
	return service.New(st, a.registry,
		service.WithLogger(a.log),
		service.WithIdentity(service.StaticIdentity(a.cfg.User)),
	), nil
}

func (a *app) close() {
	if a.sql != nil {
		if err := a.sql.Close(); err != nil {
			a.log.Warnw("close store", "error", err)
		}
	}
}

// loadDefinition reads a definition file. Comments and trailing commas are
// accepted.
func (a *app) loadDefinition(path string) (form.Definition, error) {
	if path == "" {
		return nil, fmt.Errorf("--definition is required")
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	def, err := form.Decode(jsonc.ToJSON(data), a.registry)
	if err != nil {
		return nil, fmt.Errorf("definition %s: %w", path, err)
	}
	return def, nil
}
