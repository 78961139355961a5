package fields

import (
	"encoding/json"
	"strings"
)

// Type tags a field kind. It is the value persisted in the "type" property of
// a serialized instance.
type Type string

// Built-in field types.
const (
	TypeText      Type = "text"
	TypeTextarea  Type = "textarea"
	TypeNumber    Type = "number"
	TypeSelect    Type = "select"
	TypeCheckbox  Type = "checkbox"
	TypeDate      Type = "date"
	TypeTitle     Type = "title"
	TypeSubtitle  Type = "subtitle"
	TypeParagraph Type = "paragraph"
	TypeSeparator Type = "separator"
	TypeSpacer    Type = "spacer"
)

// legacyTypes maps the component-style tags written by earlier versions of the
// builder onto the current tags.
var legacyTypes = map[string]Type{
	"TextField":      TypeText,
	"TextAreaField":  TypeTextarea,
	"NumberField":    TypeNumber,
	"SelectField":    TypeSelect,
	"CheckboxField":  TypeCheckbox,
	"DateField":      TypeDate,
	"TitleField":     TypeTitle,
	"SubTitleField":  TypeSubtitle,
	"ParagraphField": TypeParagraph,
	"SeparatorField": TypeSeparator,
	"SpacerField":    TypeSpacer,
}

// NormalizeType trims the raw tag and maps legacy component names onto their
// current Type. Unknown tags are returned as-is so the registry can reject
// them.
func NormalizeType(raw string) Type {
	trimmed := strings.TrimSpace(raw)
	if mapped, ok := legacyTypes[trimmed]; ok {
		return mapped
	}
	return Type(trimmed)
}

// Group buckets descriptors in the designer palette.
type Group string

const (
	GroupLayout Group = "layout"
	GroupInput  Group = "input"
)

// Meta is the palette entry shown for a descriptor in the designer sidebar.
type Meta struct {
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
	Group Group  `json:"group"`
}

// Config is a type-specific configuration value (the persisted
// extraAttributes object). Implementations are plain structs with JSON and
// validation tags.
type Config interface {
	// Clone returns a deep copy so instances never share mutable state.
	Clone() Config
}

// Requirer is implemented by configurations that carry a required flag.
type Requirer interface {
	IsRequired() bool
}

// Labeler is implemented by configurations that expose a human label.
type Labeler interface {
	FieldLabel() string
}

// Instance is one field placed on a form.
type Instance struct {
	ID     string
	Type   Type
	Config Config
}

// Clone returns a deep copy of the instance.
func (i Instance) Clone() Instance {
	out := i
	if i.Config != nil {
		out.Config = i.Config.Clone()
	}
	return out
}

// Required reports whether the instance configuration marks it required.
func (i Instance) Required() bool {
	if r, ok := i.Config.(Requirer); ok {
		return r.IsRequired()
	}
	return false
}

// Label returns the configured label, falling back to the instance id.
func (i Instance) Label() string {
	if l, ok := i.Config.(Labeler); ok {
		if label := strings.TrimSpace(l.FieldLabel()); label != "" {
			return label
		}
	}
	return i.ID
}

type wireInstance struct {
	ID              string `json:"id"`
	Type            Type   `json:"type"`
	ExtraAttributes any    `json:"extraAttributes"`
}

// MarshalJSON encodes the persisted {id, type, extraAttributes} shape.
func (i Instance) MarshalJSON() ([]byte, error) {
	attrs := any(i.Config)
	if attrs == nil {
		attrs = struct{}{}
	}
	return json.Marshal(wireInstance{ID: i.ID, Type: i.Type, ExtraAttributes: attrs})
}
