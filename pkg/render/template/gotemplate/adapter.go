package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formdesigner/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	extension string
	filters   map[string]pongo2.FilterFunction
	globals   pongo2.Context
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the ".tpl" extension appended to template names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithFilter registers a pongo2 filter when the engine loads. pongo2 keeps
// filters process-wide, so a filter of the same name is replaced and must
// not depend on per-engine state. Use WithGlobal for that.
func WithFilter(name string, fn pongo2.FilterFunction) Option {
	return func(cfg *config) {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]pongo2.FilterFunction)
		}
		cfg.filters[name] = fn
	}
}

// WithGlobal exposes value to every template of this engine only. Functions
// are callable from templates, e.g. {{ sanitize(view.Text)|safe }}.
func WithGlobal(name string, value any) Option {
	return func(cfg *config) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if cfg.globals == nil {
			cfg.globals = pongo2.Context{}
		}
		cfg.globals[name] = value
	}
}

// Engine satisfies template.TemplateRenderer with a pongo2 template set.
// Data is handed to pongo2 as is: structs are read by exported field name and
// numbers keep their Go type.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	extension string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.templates == nil {
		return nil, errors.New("gotemplate: template fs.FS is required")
	}

	for name, fn := range cfg.filters {
		if err := registerFilter(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register filter %q: %w", name, err)
		}
	}

	set := pongo2.NewSet("formdesigner", pongo2.NewFSLoader(cfg.templates))
	if len(cfg.globals) > 0 {
		set.Globals.Update(cfg.globals)
	}

	return &Engine{
		set:       set,
		templates: make(map[string]*pongo2.Template),
		extension: cfg.extension,
	}, nil
}

// RenderTemplate executes the named template with data. The engine extension
// is appended when name lacks it. The result is also copied to every writer
// in out.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}

	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", path, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

var filterMu sync.Mutex

func registerFilter(name string, fn pongo2.FilterFunction) error {
	filterMu.Lock()
	defer filterMu.Unlock()
	if pongo2.FilterExists(name) {
		return pongo2.ReplaceFilter(name, fn)
	}
	return pongo2.RegisterFilter(name, fn)
}
