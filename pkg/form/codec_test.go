package form_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/form"
)

func sampleDefinition(t *testing.T, reg *fields.Registry) form.Definition {
	t.Helper()
	var def form.Definition
	for i, tag := range []fields.Type{fields.TypeTitle, fields.TypeText, fields.TypeSelect, fields.TypeSpacer} {
		inst, err := reg.NewInstance(tag, string(rune('a'+i)))
		if err != nil {
			t.Fatalf("new instance: %v", err)
		}
		def = append(def, inst)
	}
	cfg := def[2].Config.(fields.SelectConfig)
	cfg.Options = []string{"red", "green"}
	cfg.Required = true
	def[2].Config = cfg
	return def
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	reg := fields.NewRegistry()
	def := sampleDefinition(t, reg)

	data, err := form.Encode(def)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := form.Decode(data, reg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(def, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	again, err := form.Encode(decoded)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if diff := cmp.Diff(string(data), string(again)); diff != "" {
		t.Fatalf("encoding not stable (-want +got):\n%s", diff)
	}
}

func TestEncodeWireShape(t *testing.T) {
	reg := fields.NewRegistry()
	inst, _ := reg.NewInstance(fields.TypeSeparator, "sep")
	data, err := form.Encode(form.Definition{inst})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := string(data); got != `[{"id":"sep","type":"separator","extraAttributes":{}}]` {
		t.Fatalf("unexpected wire shape: %s", got)
	}

	empty, _ := form.Encode(nil)
	if string(empty) != "[]" {
		t.Fatalf("nil definition encoded as %s", empty)
	}
}

func TestDecodeLegacyTags(t *testing.T) {
	reg := fields.NewRegistry()
	data := []byte(`[
		{"id":"1","type":"TextField","extraAttributes":{"label":"Name","helperText":"","required":true,"placeHolder":""}},
		{"id":"2","type":"SeparatorField","extraAttributes":{}}
	]`)
	def, err := form.Decode(data, reg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if def[0].Type != fields.TypeText || def[1].Type != fields.TypeSeparator {
		t.Fatalf("legacy tags not normalised: %v, %v", def[0].Type, def[1].Type)
	}
	if !def[0].Required() || def[0].Label() != "Name" {
		t.Fatalf("unexpected decoded config: %+v", def[0].Config)
	}
}

func TestDecodeRejectsInvalidDefinitions(t *testing.T) {
	reg := fields.NewRegistry()
	cases := []struct {
		name string
		data string
		want error
	}{
		{"unknown type", `[{"id":"1","type":"signature","extraAttributes":{}}]`, fields.ErrUnknownFieldType},
		{"duplicate id", `[{"id":"1","type":"separator"},{"id":"1","type":"spacer"}]`, form.ErrDuplicateID},
		{"empty id", `[{"id":"","type":"separator"}]`, form.ErrEmptyID},
		{"bad config", `[{"id":"1","type":"spacer","extraAttributes":{"height":1}}]`, fields.ErrInvalidConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := form.Decode([]byte(tc.data), reg)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := form.Decode([]byte(`{"id":"1"}`), reg); err == nil || !strings.Contains(err.Error(), "decode definition") {
		t.Fatalf("expected decode error, got %v", err)
	}
	def, err := form.Decode([]byte("  "), reg)
	if err != nil || len(def) != 0 {
		t.Fatalf("expected empty definition, got %v, %v", def, err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	reg := fields.NewRegistry()
	def := sampleDefinition(t, reg)
	clone := def.Clone()

	cfg := clone[2].Config.(fields.SelectConfig)
	cfg.Options[0] = "blue"
	clone[2].Config = cfg

	if got := def[2].Config.(fields.SelectConfig).Options[0]; got != "red" {
		t.Fatalf("clone shares options with original: %q", got)
	}
}

func TestFingerprint(t *testing.T) {
	reg := fields.NewRegistry()
	def := sampleDefinition(t, reg)

	first, err := def.Fingerprint()
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	second, _ := def.Clone().Fingerprint()
	if first != second || len(first) != 64 {
		t.Fatalf("fingerprints differ or wrong length: %q %q", first, second)
	}

	changed := def.Clone()
	changed[0], changed[1] = changed[1], changed[0]
	third, _ := changed.Fingerprint()
	if third == first {
		t.Fatalf("reordered definition kept fingerprint")
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := form.NewID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
