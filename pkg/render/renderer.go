// Package render defines the renderer contract shared by the HTML and
// terminal front ends, plus the page model both of them consume.
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/form"
)

// Mode selects which of the three field contracts a renderer draws.
type Mode string

const (
	// ModeDesign draws read-only canvas previews.
	ModeDesign Mode = "design"
	// ModeProperties draws the property editor of the selected instance.
	ModeProperties Mode = "properties"
	// ModeFill draws editable inputs for respondents.
	ModeFill Mode = "fill"
)

// ParseMode maps a user supplied name onto a Mode.
func ParseMode(raw string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case ModeDesign, ModeProperties, ModeFill:
		return mode, nil
	case "":
		return ModeFill, nil
	default:
		return "", fmt.Errorf("render: unknown mode %q", raw)
	}
}

// Renderer converts a form definition into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, mode Mode, def form.Definition, options RenderOptions) ([]byte, error)
}
