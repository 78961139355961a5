package fill_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/designer"
	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/fill"
	"github.com/goliatone/go-formdesigner/pkg/form"
)

func ids() form.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("f%d", n)
	}
}

func newFill(t *testing.T, reg *fields.Registry, def form.Definition) *fill.Session {
	t.Helper()
	s, err := fill.New(reg, def)
	if err != nil {
		t.Fatalf("new fill session: %v", err)
	}
	return s
}

func TestRequiredTextScenario(t *testing.T) {
	reg := fields.NewRegistry()
	d := designer.New(reg, designer.WithIDGenerator(ids()))
	a, err := d.Add(fields.TypeText, 0)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	s := newFill(t, reg, d.Definition())
	if !s.IsValid() {
		t.Fatalf("optional text with no value should be valid")
	}

	cfg := a.Config.(fields.TextConfig)
	cfg.Required = true
	if err := d.UpdateConfig(a.ID, cfg); err != nil {
		t.Fatalf("update: %v", err)
	}

	s = newFill(t, reg, d.Definition())
	if s.IsValid() {
		t.Fatalf("required text with no value should be invalid")
	}
	if _, err := s.Payload(); !errors.Is(err, fill.ErrFormNotValid) {
		t.Fatalf("expected ErrFormNotValid, got %v", err)
	}

	if err := s.SetValue(a.ID, "hello"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if !s.IsValid() {
		t.Fatalf("expected valid form after entering a value")
	}
	payload, err := s.Payload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if diff := cmp.Diff(fill.Payload{a.ID: "hello"}, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestRequiredSelectAcceptsOffListValue(t *testing.T) {
	reg := fields.NewRegistry()
	d := designer.New(reg, designer.WithIDGenerator(ids()))
	inst, _ := d.Add(fields.TypeSelect, 0)
	cfg := inst.Config.(fields.SelectConfig)
	cfg.Options = []string{"red", "green"}
	cfg.Required = true
	if err := d.UpdateConfig(inst.ID, cfg); err != nil {
		t.Fatalf("update: %v", err)
	}

	s := newFill(t, reg, d.Definition())
	if err := s.SetValue(inst.ID, "blue"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if s.Status(inst.ID) != fill.StatusValid || !s.IsValid() {
		t.Fatalf("off-list value should be accepted by required select")
	}
}

func TestFieldLifecycle(t *testing.T) {
	reg := fields.NewRegistry()
	inst, _ := reg.NewInstance(fields.TypeNumber, "n")
	cfg := inst.Config.(fields.NumberConfig)
	cfg.Required = true
	inst.Config = cfg

	s := newFill(t, reg, form.Definition{inst})
	steps := []struct {
		value string
		want  fill.Status
	}{
		{"abc", fill.StatusInvalid},
		{"42", fill.StatusValid},
		{"", fill.StatusInvalid},
		{"3.14", fill.StatusValid},
	}
	if got := s.Status("n"); got != fill.StatusUntouched {
		t.Fatalf("expected untouched, got %v", got)
	}
	for _, step := range steps {
		if err := s.SetValue("n", step.value); err != nil {
			t.Fatalf("set value: %v", err)
		}
		if got := s.Status("n"); got != step.want {
			t.Fatalf("after %q status = %v, want %v", step.value, got, step.want)
		}
		if value, _ := s.Value("n"); value != step.value {
			t.Fatalf("stored value %q, want %q", value, step.value)
		}
	}
}

func TestSetValueUnknownID(t *testing.T) {
	reg := fields.NewRegistry()
	s := newFill(t, reg, form.Definition{})
	if err := s.SetValue("ghost", "x"); !errors.Is(err, fill.ErrInstanceNotFound) {
		t.Fatalf("expected ErrInstanceNotFound, got %v", err)
	}
}

func TestIsValidProperty(t *testing.T) {
	reg := fields.NewRegistry()
	required := func(tag fields.Type, id string) fields.Instance {
		inst, _ := reg.NewInstance(tag, id)
		switch cfg := inst.Config.(type) {
		case fields.TextConfig:
			cfg.Required = true
			inst.Config = cfg
		case fields.CheckboxConfig:
			cfg.Required = true
			inst.Config = cfg
		}
		return inst
	}
	optionalDate, _ := reg.NewInstance(fields.TypeDate, "date")
	title, _ := reg.NewInstance(fields.TypeTitle, "title")
	def := form.Definition{title, required(fields.TypeText, "name"), required(fields.TypeCheckbox, "terms"), optionalDate}

	cases := []struct {
		name   string
		values map[string]string
		want   bool
		errs   []string
	}{
		{"nothing entered", nil, false, []string{"name", "terms"}},
		{"required satisfied", map[string]string{"name": "Ada", "terms": "true"}, true, nil},
		{"optional invalid", map[string]string{"name": "Ada", "terms": "true", "date": "soon"}, false, []string{"date"}},
		{"optional valid", map[string]string{"name": "Ada", "terms": "true", "date": "2024-01-01"}, true, nil},
		{"unticked", map[string]string{"name": "Ada", "terms": "false"}, false, []string{"terms"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := fill.New(reg, def, fill.WithValues(tc.values))
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if got := s.IsValid(); got != tc.want {
				t.Fatalf("IsValid() = %v, want %v", got, tc.want)
			}
			if diff := cmp.Diff(tc.errs, s.Errors()); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPayloadContainsOnlyDefinitionIDs(t *testing.T) {
	reg := fields.NewRegistry()
	name, _ := reg.NewInstance(fields.TypeText, "name")
	notes, _ := reg.NewInstance(fields.TypeTextarea, "notes")
	spacer, _ := reg.NewInstance(fields.TypeSpacer, "gap")

	s, err := fill.New(reg, form.Definition{name, spacer, notes}, fill.WithValues(map[string]string{
		"name":    "Ada",
		"removed": "stale",
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := s.Value("removed"); ok {
		t.Fatalf("seeded value for unknown id should be ignored")
	}

	payload, err := s.Payload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if diff := cmp.Diff(fill.Payload{"name": "Ada"}, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	payload["name"] = "changed"
	if value, _ := s.Value("name"); value != "Ada" {
		t.Fatalf("payload is not a snapshot")
	}
}

func TestValidateMarksUntouchedFields(t *testing.T) {
	reg := fields.NewRegistry()
	inst, _ := reg.NewInstance(fields.TypeText, "name")
	cfg := inst.Config.(fields.TextConfig)
	cfg.Required = true
	inst.Config = cfg
	optional, _ := reg.NewInstance(fields.TypeText, "nick")

	s := newFill(t, reg, form.Definition{inst, optional})
	if s.Validate() {
		t.Fatalf("expected validation to fail")
	}
	if s.Status("name") != fill.StatusInvalid || s.Status("nick") != fill.StatusValid {
		t.Fatalf("unexpected statuses: %v %v", s.Status("name"), s.Status("nick"))
	}
	views := s.Inputs()
	if !views[0].Invalid || views[1].Invalid {
		t.Fatalf("unexpected invalid flags: %v %v", views[0].Invalid, views[1].Invalid)
	}
}

func TestInputsSubmitUpdatesSession(t *testing.T) {
	reg := fields.NewRegistry()
	inst, _ := reg.NewInstance(fields.TypeCheckbox, "terms")
	s := newFill(t, reg, form.Definition{inst})

	views := s.Inputs()
	views[0].Submit(views[0].ID, "true")

	if value, _ := s.Value("terms"); value != "true" {
		t.Fatalf("submit callback did not store value, got %q", value)
	}
	if s.Inputs()[0].Value != "true" {
		t.Fatalf("inputs did not reflect stored value")
	}
}

func TestDefinitionIsCopiedOnOpen(t *testing.T) {
	reg := fields.NewRegistry()
	inst, _ := reg.NewInstance(fields.TypeText, "name")
	def := form.Definition{inst}
	s := newFill(t, reg, def)

	def[0].ID = "renamed"
	if err := s.SetValue("name", "x"); err != nil {
		t.Fatalf("session should keep its own copy: %v", err)
	}
}

func TestNewRejectsUnknownTypes(t *testing.T) {
	_, err := fill.New(fields.NewRegistry(), form.Definition{{ID: "x", Type: "signature"}})
	if !errors.Is(err, fields.ErrUnknownFieldType) {
		t.Fatalf("expected ErrUnknownFieldType, got %v", err)
	}
}

func TestPayloadCodec(t *testing.T) {
	data, err := fill.Payload{"b": "2", "a": "1"}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != `{"a":"1","b":"2"}` {
		t.Fatalf("unexpected encoding: %s", data)
	}
	decoded, err := fill.DecodePayload(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(fill.Payload{"a": "1", "b": "2"}, decoded); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
	if _, err := fill.DecodePayload([]byte("[")); err == nil {
		t.Fatalf("expected decode error")
	}
	empty, _ := fill.Payload(nil).Encode()
	if string(empty) != "{}" {
		t.Fatalf("nil payload encoded as %s", empty)
	}
}
