package fields

import (
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are the accepted date value encodings, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

func requiredText(required bool, value string) bool {
	if required {
		return len(value) > 0
	}
	return true
}

func commonControls(c FieldCommon) []Control {
	return []Control{
		{Name: "label", Label: "Label", Description: "The label of the field. It is displayed above the field.", Kind: ControlText, Value: c.Label, Min: 2, Max: 50},
		{Name: "helperText", Label: "Helper text", Description: "Displayed below the field.", Kind: ControlText, Value: c.HelperText, Max: 200},
	}
}

func requiredControl(c FieldCommon) Control {
	return Control{Name: "required", Label: "Required", Description: "Respondents must answer before submitting.", Kind: ControlSwitch, Value: c.Required}
}

func placeholderControl(c InputCommon) Control {
	return Control{Name: "placeHolder", Label: "Placeholder", Description: "Shown while the field is empty.", Kind: ControlText, Value: c.PlaceHolder, Max: 50}
}

func inputView(widget Widget, c InputCommon) View {
	return View{
		Widget:      widget,
		Label:       c.Label,
		Placeholder: c.PlaceHolder,
		HelperText:  c.HelperText,
		Required:    c.Required,
	}
}

// TextKind is the single-line text input.
func TextKind() *Kind[TextConfig] {
	return &Kind[TextConfig]{
		Tag:     TypeText,
		Palette: Meta{Label: "Text Field", Icon: "text", Group: GroupInput},
		Default: func() TextConfig {
			return TextConfig{InputCommon{
				FieldCommon: FieldCommon{Label: "Text field", HelperText: "Helper text"},
				PlaceHolder: "Value here...",
			}}
		},
		Preview: func(_ Instance, c TextConfig) View { return inputView(WidgetInput, c.InputCommon) },
		Properties: func(_ Instance, c TextConfig) []Control {
			return append(commonControls(c.FieldCommon), placeholderControl(c.InputCommon), requiredControl(c.FieldCommon))
		},
		Validate: func(c TextConfig, value string) bool { return requiredText(c.Required, value) },
	}
}

// TextareaKind is the multi-line text input.
func TextareaKind() *Kind[TextareaConfig] {
	return &Kind[TextareaConfig]{
		Tag:     TypeTextarea,
		Palette: Meta{Label: "TextArea Field", Icon: "textarea", Group: GroupInput},
		Default: func() TextareaConfig {
			return TextareaConfig{
				InputCommon: InputCommon{
					FieldCommon: FieldCommon{Label: "Text area", HelperText: "Helper text"},
					PlaceHolder: "Value here...",
				},
				Rows: 3,
			}
		},
		Preview: func(_ Instance, c TextareaConfig) View {
			view := inputView(WidgetTextarea, c.InputCommon)
			view.Rows = c.Rows
			return view
		},
		Properties: func(_ Instance, c TextareaConfig) []Control {
			controls := append(commonControls(c.FieldCommon), placeholderControl(c.InputCommon))
			controls = append(controls, Control{Name: "rows", Label: "Rows", Kind: ControlNumber, Value: c.Rows, Min: 1, Max: 10})
			return append(controls, requiredControl(c.FieldCommon))
		},
		Validate: func(c TextareaConfig, value string) bool { return requiredText(c.Required, value) },
	}
}

// NumberKind is the numeric input. Non-empty values must parse as a decimal.
func NumberKind() *Kind[NumberConfig] {
	return &Kind[NumberConfig]{
		Tag:     TypeNumber,
		Palette: Meta{Label: "Number Field", Icon: "number", Group: GroupInput},
		Default: func() NumberConfig {
			return NumberConfig{InputCommon{
				FieldCommon: FieldCommon{Label: "Number field", HelperText: "Helper text"},
				PlaceHolder: "0",
			}}
		},
		Preview: func(_ Instance, c NumberConfig) View { return inputView(WidgetNumber, c.InputCommon) },
		Properties: func(_ Instance, c NumberConfig) []Control {
			return append(commonControls(c.FieldCommon), placeholderControl(c.InputCommon), requiredControl(c.FieldCommon))
		},
		Validate: func(c NumberConfig, value string) bool {
			if value == "" {
				return !c.Required
			}
			_, err := decimal.NewFromString(value)
			return err == nil
		},
	}
}

// SelectKind is the drop-down list. A required select accepts any non-empty
// value; membership in Options is not checked.
func SelectKind() *Kind[SelectConfig] {
	return &Kind[SelectConfig]{
		Tag:     TypeSelect,
		Palette: Meta{Label: "Select Field", Icon: "select", Group: GroupInput},
		Default: func() SelectConfig {
			return SelectConfig{
				InputCommon: InputCommon{
					FieldCommon: FieldCommon{Label: "Select field", HelperText: "Helper text"},
					PlaceHolder: "Value here...",
				},
				Options: []string{},
			}
		},
		Preview: func(_ Instance, c SelectConfig) View {
			view := inputView(WidgetSelect, c.InputCommon)
			view.Options = append([]string(nil), c.Options...)
			return view
		},
		Properties: func(_ Instance, c SelectConfig) []Control {
			controls := append(commonControls(c.FieldCommon), placeholderControl(c.InputCommon))
			controls = append(controls, Control{Name: "options", Label: "Options", Kind: ControlList, Value: append([]string(nil), c.Options...)})
			return append(controls, requiredControl(c.FieldCommon))
		},
		Validate: func(c SelectConfig, value string) bool { return requiredText(c.Required, value) },
	}
}

// CheckboxKind is a single boolean tick box. Values are "true" or "false".
func CheckboxKind() *Kind[CheckboxConfig] {
	return &Kind[CheckboxConfig]{
		Tag:     TypeCheckbox,
		Palette: Meta{Label: "CheckBox Field", Icon: "checkbox", Group: GroupInput},
		Default: func() CheckboxConfig {
			return CheckboxConfig{FieldCommon{Label: "Checkbox field", HelperText: "Helper text"}}
		},
		Preview: func(_ Instance, c CheckboxConfig) View {
			return View{Widget: WidgetCheckbox, Label: c.Label, HelperText: c.HelperText, Required: c.Required}
		},
		Properties: func(_ Instance, c CheckboxConfig) []Control {
			return append(commonControls(c.FieldCommon), requiredControl(c.FieldCommon))
		},
		Validate: func(c CheckboxConfig, value string) bool {
			if c.Required {
				return value == "true"
			}
			return value == "true" || value == "false" || value == ""
		},
	}
}

// DateKind is the date picker. Non-empty values must be a calendar date.
func DateKind() *Kind[DateConfig] {
	return &Kind[DateConfig]{
		Tag:     TypeDate,
		Palette: Meta{Label: "Date Field", Icon: "calendar", Group: GroupInput},
		Default: func() DateConfig {
			return DateConfig{FieldCommon{Label: "Date field", HelperText: "Pick a date"}}
		},
		Preview: func(_ Instance, c DateConfig) View {
			return View{Widget: WidgetDate, Label: c.Label, HelperText: c.HelperText, Required: c.Required, Placeholder: "Pick a date"}
		},
		Properties: func(_ Instance, c DateConfig) []Control {
			return append(commonControls(c.FieldCommon), requiredControl(c.FieldCommon))
		},
		Validate: func(c DateConfig, value string) bool {
			if value == "" {
				return !c.Required
			}
			_, ok := ParseDate(value)
			return ok
		},
	}
}

// ParseDate parses a date field value.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
