package components

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/fields"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry constructs a registry pre-populated with a component for
// every built-in widget. Templates receive the fields.View as view, the DOM id
// as control_id and any extra keys of the component.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(fields.WidgetInput, Descriptor{Renderer: templateComponent("input.tmpl", map[string]any{"input_type": "text"})})
	registry.MustRegister(fields.WidgetNumber, Descriptor{Renderer: templateComponent("input.tmpl", map[string]any{"input_type": "number"})})
	registry.MustRegister(fields.WidgetDate, Descriptor{Renderer: templateComponent("input.tmpl", map[string]any{"input_type": "date"})})
	registry.MustRegister(fields.WidgetTextarea, Descriptor{Renderer: templateComponent("textarea.tmpl", nil)})
	registry.MustRegister(fields.WidgetSelect, Descriptor{Renderer: templateComponent("select.tmpl", nil)})
	registry.MustRegister(fields.WidgetCheckbox, Descriptor{Renderer: templateComponent("checkbox.tmpl", nil)})
	registry.MustRegister(fields.WidgetHeading, Descriptor{Renderer: templateComponent("heading.tmpl", nil)})
	registry.MustRegister(fields.WidgetParagraph, Descriptor{Renderer: templateComponent("paragraph.tmpl", nil)})
	registry.MustRegister(fields.WidgetSeparator, Descriptor{Renderer: templateComponent("separator.tmpl", nil)})
	registry.MustRegister(fields.WidgetSpacer, Descriptor{Renderer: templateComponent("spacer.tmpl", nil)})

	return registry
}

func templateComponent(templateName string, extra map[string]any) Renderer {
	return func(buf *bytes.Buffer, view fields.View, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		payload := map[string]any{
			"view":       view,
			"control_id": data.ControlID,
		}
		for key, value := range extra {
			payload[key] = value
		}
		rendered, err := data.Template.RenderTemplate(templatePrefix+templateName, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
