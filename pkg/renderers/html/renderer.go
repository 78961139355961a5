// Package html renders form definitions as HTML fragments for the designer
// canvas, the property panel and the public fill page.
package html

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/form"
	"github.com/goliatone/go-formdesigner/pkg/logger"
	"github.com/goliatone/go-formdesigner/pkg/render"
	rendertemplate "github.com/goliatone/go-formdesigner/pkg/render/template"
	"github.com/goliatone/go-formdesigner/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formdesigner/pkg/renderers/html/components"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	policy           *bluemonday.Policy
	stylesheets      []string
	log              *logger.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation. The
// bundled templates expect a css filter and a sanitize function, which a
// custom renderer has to provide itself.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the widget component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithPolicy replaces the sanitizer applied to paragraph text.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithStylesheet links an external stylesheet from the rendered fragment.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithLogger attaches a logger for render events.
func WithLogger(log *logger.Logger) Option {
	return func(cfg *config) {
		if log != nil {
			cfg.log = log
		}
	}
}

// Renderer draws definitions through pongo2 templates.
type Renderer struct {
	resolver    form.Resolver
	templates   rendertemplate.TemplateRenderer
	components  *components.Registry
	stylesheets []string
	log         *logger.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(resolver form.Resolver, options ...Option) (*Renderer, error) {
	if resolver == nil {
		return nil, fmt.Errorf("html renderer: resolver is required")
	}
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}
	if cfg.log == nil {
		cfg.log = logger.Nop()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithFilter("css", cssFilter),
			gotemplate.WithGlobal("sanitize", cfg.policy.Sanitize),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		resolver:    resolver,
		templates:   templates,
		components:  cfg.components,
		stylesheets: cfg.stylesheets,
		log:         cfg.log.Named("html"),
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws def in the requested mode.
func (r *Renderer) Render(ctx context.Context, mode render.Mode, def form.Definition, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := render.BuildPage(r.resolver, mode, def, options)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}

	fieldData := make([]fieldView, 0, len(page.Views))
	used := make([]string, 0, len(page.Views))
	for _, view := range page.Views {
		markup, err := r.renderComponent(view)
		if err != nil {
			return nil, err
		}
		used = append(used, string(view.Widget))
		fieldData = append(fieldData, fieldView{
			View:     view,
			HTML:     markup,
			Selected: view.ID != "" && view.ID == page.Selected,
			Errors:   page.Errors.Fields[view.ID],
		})
	}

	data := map[string]any{
		"mode":         string(page.Mode),
		"title":        page.Title,
		"fields":       fieldData,
		"form_errors":  page.Errors.Form,
		"hidden":       page.Hidden,
		"action":       page.Action,
		"submit_label": page.SubmitLabel,
		"valid":        page.Valid,
		"stylesheets":  append(append([]string{}, r.stylesheets...), r.components.Stylesheets(used)...),
	}
	if page.Editor != nil {
		data["editor"] = editorData(*page.Editor)
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	r.log.Debugw("rendered", "mode", page.Mode, "fields", len(page.Views))
	return []byte(result), nil
}

func (r *Renderer) renderComponent(view fields.View) (string, error) {
	descriptor, ok := r.components.Descriptor(view.Widget)
	if !ok {
		return "", fmt.Errorf("html renderer: component %q not registered for field %q", view.Widget, view.ID)
	}
	var buf bytes.Buffer
	err := descriptor.Renderer(&buf, view, components.ComponentData{
		Template:  r.templates,
		ControlID: controlID(view.ID),
	})
	if err != nil {
		return "", fmt.Errorf("html renderer: render component %q for field %q: %w", view.Widget, view.ID, err)
	}
	return buf.String(), nil
}

// fieldView wraps one rendered component for templates/form.tmpl.
type fieldView struct {
	View     fields.View
	HTML     string
	Selected bool
	Errors   []string
}

func editorData(editor fields.Editor) map[string]any {
	controls := make([]map[string]any, 0, len(editor.Controls))
	for _, control := range editor.Controls {
		controls = append(controls, controlData(control))
	}
	return map[string]any{
		"instance_id": editor.InstanceID,
		"type":        string(editor.Type),
		"controls":    controls,
	}
}

func controlData(control fields.Control) map[string]any {
	out := map[string]any{
		"name":        control.Name,
		"label":       control.Label,
		"description": control.Description,
		"kind":        string(control.Kind),
		"choices":     append([]string{}, control.Choices...),
		"text":        controlText(control.Value),
		"checked":     control.Value == true,
		"input_type":  "text",
		"min_attr":    "minlength",
		"max_attr":    "maxlength",
		"min":         "",
		"max":         "",
	}
	switch control.Kind {
	case fields.ControlNumber:
		out["input_type"] = "number"
		out["min_attr"], out["max_attr"] = "min", "max"
	case fields.ControlColor:
		out["input_type"] = "color"
	}
	if control.Min > 0 {
		out["min"] = strconv.Itoa(control.Min)
	}
	if control.Max > 0 {
		out["max"] = strconv.Itoa(control.Max)
	}
	return out
}

func controlText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, "\n")
	default:
		return fmt.Sprint(v)
	}
}

// cssFilter prints a fields.Style as inline CSS.
func cssFilter(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	style, ok := in.Interface().(fields.Style)
	if !ok {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(style.CSS()), nil
}

func controlID(id string) string {
	if strings.TrimSpace(id) == "" {
		return ""
	}
	return "fd-" + id
}
