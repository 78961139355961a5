package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Descriptor is the registered definition of one field kind.
//
// The three render contracts are independent on purpose: DesignPreview is a
// read-only canvas rendering, PropertyEditor edits the configuration and
// FillInput edits a value.
type Descriptor interface {
	Type() Type
	Meta() Meta
	Defaults() Config
	ValidateConfig(cfg Config) error
	DecodeConfig(raw json.RawMessage) (Config, error)

	DesignPreview(inst Instance) View
	PropertyEditor(inst Instance, props EditorProps) Editor
	FillInput(inst Instance, props FillProps) View

	ValidateValue(inst Instance, value string) bool
}

// Kind builds a Descriptor from functions typed on the configuration C.
// Instances whose Config is not a C are rendered and validated against the
// defaults.
type Kind[C Config] struct {
	Tag     Type
	Palette Meta
	// Default returns a fresh default configuration.
	Default func() C
	// Preview renders the designer canvas view.
	Preview func(inst Instance, cfg C) View
	// Properties lists the editable properties.
	Properties func(inst Instance, cfg C) []Control
	// Input renders the fill view. When nil the preview is reused with the
	// read-only flag cleared.
	Input func(inst Instance, cfg C, props FillProps) View
	// Validate judges an entered value. When nil every value is accepted.
	Validate func(cfg C, value string) bool
}

var _ Descriptor = (*Kind[SeparatorConfig])(nil)

func (k *Kind[C]) Type() Type { return k.Tag }

func (k *Kind[C]) Meta() Meta { return k.Palette }

func (k *Kind[C]) Defaults() Config { return k.Default() }

// ValidateConfig rejects configurations of the wrong concrete type and those
// failing the struct-tag schema of C.
func (k *Kind[C]) ValidateConfig(cfg Config) error {
	typed, ok := cfg.(C)
	if !ok {
		return &ConfigError{
			Type:   k.Tag,
			Issues: []Issue{{Message: fmt.Sprintf("configuration %T does not belong to %q", cfg, k.Tag)}},
		}
	}
	return checkSchema(k.Tag, typed)
}

// DecodeConfig decodes a persisted extraAttributes object on top of the
// defaults, then validates it. Unknown keys are ignored so definitions saved
// by other or older editors still load. Property editor commits reject them.
func (k *Kind[C]) DecodeConfig(raw json.RawMessage) (Config, error) {
	cfg := k.Default()
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &cfg); err != nil {
			return nil, &ConfigError{Type: k.Tag, Issues: []Issue{{Message: err.Error()}}}
		}
	}
	if err := checkSchema(k.Tag, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (k *Kind[C]) DesignPreview(inst Instance) View {
	view := k.Preview(inst, k.typed(inst))
	view.ID = inst.ID
	view.Type = k.Tag
	view.ReadOnly = true
	return view
}

func (k *Kind[C]) PropertyEditor(inst Instance, props EditorProps) Editor {
	cfg := k.typed(inst)
	editor := Editor{InstanceID: inst.ID, Type: k.Tag}
	if k.Properties != nil {
		editor.Controls = k.Properties(inst, cfg)
	}
	if props.Apply != nil {
		apply := props.Apply
		editor.commit = func(values map[string]any) error {
			next, err := k.merge(cfg, values)
			if err != nil {
				return err
			}
			return apply(next)
		}
	}
	return editor
}

func (k *Kind[C]) FillInput(inst Instance, props FillProps) View {
	cfg := k.typed(inst)
	var view View
	if k.Input != nil {
		view = k.Input(inst, cfg, props)
	} else {
		view = k.Preview(inst, cfg)
	}
	view.ID = inst.ID
	view.Type = k.Tag
	view.ReadOnly = false
	if view.Interactive() {
		view.Value = props.Value
		view.Invalid = props.Invalid
		view.Submit = props.Submit
	}
	return view
}

func (k *Kind[C]) ValidateValue(inst Instance, value string) bool {
	if k.Validate == nil {
		return true
	}
	return k.Validate(k.typed(inst), value)
}

func (k *Kind[C]) typed(inst Instance) C {
	if cfg, ok := inst.Config.(C); ok {
		return cfg
	}
	return k.Default()
}

// merge overlays values onto cfg through its JSON shape. Unknown property
// names are errors here, unlike in DecodeConfig.
func (k *Kind[C]) merge(cfg C, values map[string]any) (C, error) {
	var zero C
	current, err := json.Marshal(cfg)
	if err != nil {
		return zero, err
	}
	merged := make(map[string]any)
	if err := json.Unmarshal(current, &merged); err != nil {
		return zero, err
	}
	for name, value := range values {
		merged[name] = value
	}
	encoded, err := json.Marshal(merged)
	if err != nil {
		return zero, &ConfigError{Type: k.Tag, Issues: []Issue{{Message: err.Error()}}}
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.DisallowUnknownFields()
	var next C
	if err := dec.Decode(&next); err != nil {
		return zero, &ConfigError{Type: k.Tag, Issues: []Issue{{Message: err.Error()}}}
	}
	return next, nil
}
