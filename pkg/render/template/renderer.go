package template

import (
	"io"
)

// TemplateRenderer is the engine contract the HTML renderer relies on.
// RenderTemplate executes a named template with data and copies the result to
// every writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
}
