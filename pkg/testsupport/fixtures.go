// Package testsupport holds helpers shared by package tests: definition
// fixtures, golden files and output capture.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/form"
)

// SignupDefinition is a small definition exercising layout and input kinds.
// It uses the legacy component tags for two instances so decoding paths are
// covered too.
const SignupDefinition = `[
  {"id": "title", "type": "title", "extraAttributes": {"title": "Sign up"}},
  {"id": "intro", "type": "ParagraphField", "extraAttributes": {"text": "Tell us <b>about</b> you<script>alert(1)</script>"}},
  {"id": "name", "type": "text", "extraAttributes": {"label": "Full name", "required": true, "placeHolder": "Ada Lovelace"}},
  {"id": "age", "type": "number", "extraAttributes": {"label": "Age"}},
  {"id": "colour", "type": "SelectField", "extraAttributes": {"label": "Colour", "options": ["red", "green"]}},
  {"id": "born", "type": "date", "extraAttributes": {"label": "Birthday"}},
  {"id": "gap", "type": "spacer", "extraAttributes": {"height": 20}},
  {"id": "terms", "type": "checkbox", "extraAttributes": {"label": "Accept terms", "required": true}}
]`

// MustDecode decodes a definition fixture against a registry with the
// built-in kinds.
func MustDecode(t *testing.T, data string) (form.Definition, *fields.Registry) {
	t.Helper()

	reg := fields.NewRegistry()
	def, err := form.Decode([]byte(data), reg)
	if err != nil {
		t.Fatalf("decode definition fixture: %v", err)
	}
	return def, reg
}

// MustLoadDefinition reads and decodes a definition file.
func MustLoadDefinition(t *testing.T, path string) (form.Definition, *fields.Registry) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read definition: %v", err)
	}
	return MustDecode(t, string(data))
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
