// Package formdesigner is the entry point for callers that only need to
// decode a definition and render it. The engines, store and service live
// under pkg/.
package formdesigner

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/tidwall/jsonc"

	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/form"
	"github.com/goliatone/go-formdesigner/pkg/render"
	"github.com/goliatone/go-formdesigner/pkg/renderers/html"
	"github.com/goliatone/go-formdesigner/pkg/renderers/tui"
)

// RenderOptions describes per-request overrides such as prefilled values or
// server-side validation errors.
type RenderOptions = render.RenderOptions

// Mode selects the design, properties or fill rendering.
type Mode = render.Mode

// Definition is an ordered list of field instances.
type Definition = form.Definition

// NewFieldRegistry returns a registry holding the built-in field types.
func NewFieldRegistry() *fields.Registry {
	return fields.NewRegistry()
}

// NewRenderers registers the HTML renderer (the default) and the terminal
// renderer against resolver.
func NewRenderers(resolver form.Resolver, htmlOptions []html.Option, tuiOptions []tui.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(resolver, htmlOptions...)
	if err != nil {
		return nil, err
	}
	tuiRenderer, err := tui.New(resolver, tuiOptions...)
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
	return registry, nil
}

// DecodeDefinition parses persisted definition text. Comments and trailing
// commas are tolerated.
func DecodeDefinition(data []byte, resolver form.Resolver) (Definition, error) {
	def, err := form.Decode(jsonc.ToJSON(data), resolver)
	if err != nil {
		return nil, fmt.Errorf("formdesigner: %w", err)
	}
	return def, nil
}

// RenderHTML decodes data with the built-in field types and renders it with
// the HTML renderer.
func RenderHTML(ctx context.Context, data []byte, mode Mode, options RenderOptions) ([]byte, error) {
	registry := NewFieldRegistry()
	def, err := DecodeDefinition(data, registry)
	if err != nil {
		return nil, err
	}
	renderer, err := html.New(registry)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, mode, def, options)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy or
// override them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
