package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/fill"
	"github.com/goliatone/go-formdesigner/pkg/form"
)

// ErrNoSelection is returned when properties mode is requested without a
// selected instance of the definition.
var ErrNoSelection = errors.New("render: no instance selected")

// Page is the renderer-neutral model built from a definition for one mode.
type Page struct {
	Mode     Mode
	Title    string
	Selected string
	// Views holds design previews, or fill inputs in fill mode.
	Views []fields.View
	// Editor is set in properties mode only.
	Editor *fields.Editor
	// Valid reports the fill state; always true outside fill mode.
	Valid       bool
	Errors      ErrorMapping
	Hidden      []HiddenField
	Action      string
	SubmitLabel string
}

// BuildPage runs def through the field contracts selected by mode.
func BuildPage(resolver form.Resolver, mode Mode, def form.Definition, options RenderOptions) (Page, error) {
	if err := def.Check(resolver); err != nil {
		return Page{}, err
	}

	page := Page{
		Mode:        mode,
		Title:       strings.TrimSpace(options.Title),
		Selected:    options.Selected,
		Valid:       true,
		Errors:      MapErrorPayload(def, options.Errors),
		Action:      options.Action,
		SubmitLabel: options.SubmitLabel,
	}

	switch mode {
	case ModeDesign, ModeProperties:
		page.Views = make([]fields.View, 0, len(def))
		for _, inst := range def {
			desc, err := resolver.Resolve(inst.Type)
			if err != nil {
				return Page{}, err
			}
			page.Views = append(page.Views, desc.DesignPreview(inst))
		}
		if mode == ModeDesign {
			return page, nil
		}
		inst, ok := def.Find(options.Selected)
		if !ok {
			return Page{}, fmt.Errorf("%w: %q", ErrNoSelection, options.Selected)
		}
		desc, err := resolver.Resolve(inst.Type)
		if err != nil {
			return Page{}, err
		}
		editor := desc.PropertyEditor(inst, fields.EditorProps{})
		page.Editor = &editor
		return page, nil

	case ModeFill:
		session, err := fill.New(resolver, def, fill.WithValues(options.Values))
		if err != nil {
			return Page{}, err
		}
		if options.Validate {
			session.Validate()
		}
		page.Views = session.Inputs()
		page.Valid = session.IsValid()
		page.Hidden = SortedHiddenFields(options.Hidden)
		if page.SubmitLabel == "" {
			page.SubmitLabel = "Submit"
		}
		return page, nil

	default:
		return Page{}, fmt.Errorf("render: unknown mode %q", mode)
	}
}
