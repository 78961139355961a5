package fields

import (
	"fmt"
	"strings"
)

// Widget names the control a View renders as. Renderers switch on it.
type Widget string

const (
	WidgetInput     Widget = "input"
	WidgetTextarea  Widget = "textarea"
	WidgetNumber    Widget = "number"
	WidgetSelect    Widget = "select"
	WidgetCheckbox  Widget = "checkbox"
	WidgetDate      Widget = "date"
	WidgetHeading   Widget = "heading"
	WidgetParagraph Widget = "paragraph"
	WidgetSeparator Widget = "separator"
	WidgetSpacer    Widget = "spacer"
)

// SubmitFunc receives a field value change from a fill input.
type SubmitFunc func(id, value string)

// ApplyFunc commits a configuration produced by a property editor.
type ApplyFunc func(Config) error

// View is the renderer-neutral representation produced by the design preview
// and fill input contracts.
type View struct {
	ID          string
	Type        Type
	Widget      Widget
	Label       string
	Placeholder string
	HelperText  string
	Required    bool
	Options     []string
	Rows        int
	Level       int
	Text        string
	Height      int
	Style       Style
	Value       string
	Invalid     bool
	ReadOnly    bool

	Submit SubmitFunc
}

// Interactive reports whether the view collects a value.
func (v View) Interactive() bool {
	switch v.Widget {
	case WidgetHeading, WidgetParagraph, WidgetSeparator, WidgetSpacer:
		return false
	default:
		return true
	}
}

// Style carries typography options for heading views.
type Style struct {
	FontSize       int
	Alignment      string
	Color          string
	FontWeight     string
	FontStyle      string
	TextDecoration string
	TextTransform  string
	FontFamily     string
}

// CSS renders the style as an inline declaration list. Zero values are
// skipped.
func (s Style) CSS() string {
	var parts []string
	add := func(prop, value string) {
		if strings.TrimSpace(value) != "" {
			parts = append(parts, prop+": "+value)
		}
	}
	if s.FontSize > 0 {
		add("font-size", fmt.Sprintf("%dpx", s.FontSize))
	}
	add("text-align", s.Alignment)
	add("color", s.Color)
	add("font-weight", s.FontWeight)
	add("font-style", s.FontStyle)
	add("text-decoration", s.TextDecoration)
	add("text-transform", s.TextTransform)
	if s.FontFamily != "" {
		add("font-family", "'"+s.FontFamily+"'")
	}
	return strings.Join(parts, "; ")
}

// FillProps are the inputs of the fill contract.
type FillProps struct {
	Value   string
	Invalid bool
	Submit  SubmitFunc
}

// EditorProps are the inputs of the property editor contract.
type EditorProps struct {
	Apply ApplyFunc
}

// ControlKind names the editing control of a configuration property.
type ControlKind string

const (
	ControlText     ControlKind = "text"
	ControlTextarea ControlKind = "textarea"
	ControlNumber   ControlKind = "number"
	ControlSwitch   ControlKind = "switch"
	ControlChoice   ControlKind = "choice"
	ControlList     ControlKind = "list"
	ControlColor    ControlKind = "color"
)

// Control is one editable configuration property.
type Control struct {
	Name        string
	Label       string
	Description string
	Kind        ControlKind
	Value       any
	Choices     []string
	Min         int
	Max         int
}

// Editor is the property panel for one instance.
type Editor struct {
	InstanceID string
	Type       Type
	Controls   []Control

	commit func(values map[string]any) error
}

// Control returns the control with the given property name.
func (e Editor) Control(name string) (Control, bool) {
	for _, c := range e.Controls {
		if c.Name == name {
			return c, true
		}
	}
	return Control{}, false
}

// Commit overlays values (keyed by property name) on the current
// configuration and hands the result to the Apply callback. Unknown
// properties are rejected.
func (e Editor) Commit(values map[string]any) error {
	if e.commit == nil {
		return ErrReadOnlyEditor
	}
	return e.commit(values)
}
