package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/form"
	"github.com/goliatone/go-formdesigner/pkg/render"
)

func sampleDefinition(t *testing.T, reg *fields.Registry) form.Definition {
	t.Helper()
	title, err := reg.NewInstance(fields.TypeTitle, "title")
	if err != nil {
		t.Fatalf("new title: %v", err)
	}
	name, err := reg.NewInstance(fields.TypeText, "name")
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	cfg := name.Config.(fields.TextConfig)
	cfg.Label = "Name"
	cfg.Required = true
	name.Config = cfg
	return form.Definition{title, name}
}

func TestMapErrorPayload(t *testing.T) {
	reg := fields.NewRegistry()
	def := sampleDefinition(t, reg)

	mapped := render.MapErrorPayload(def, map[string][]string{
		"name":             {"Name is required"},
		"/body/name":       {"Name is required", " Too short "},
		"payload.title":    {"Title is read only"},
		"non_field_errors": {"Form level error"},
		"body/unknown":     {"Should fall back to form errors"},
		"":                 {"  "},
	})

	wantFields := map[string][]string{
		"name":  {"Name is required", "Too short"},
		"title": {"Title is read only"},
	}
	sortStrings := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff(wantFields, mapped.Fields, sortStrings); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	wantForm := []string{"Form level error", "Should fall back to form errors"}
	if diff := cmp.Diff(wantForm, mapped.Form, sortStrings); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeAndSortHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(map[string]string{" _csrf ": "token123", "": "ignored", "share_url": "stale"},
		render.ShareToken(" abc "),
		render.VersionField("f00d"),
		render.HiddenField{Name: "  ", Value: "skip"},
	)

	wantMerged := map[string]string{
		"_csrf":       "token123",
		"share_url":   "abc",
		"fingerprint": "f00d",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: render.FingerprintField, Value: "f00d"},
		{Name: render.ShareURLField, Value: "abc"},
	}
	if diff := cmp.Diff(wantSorted, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}

	if got := render.MergeHiddenFields(nil, render.HiddenField{}); got != nil {
		t.Fatalf("expected nil for no named fields, got %v", got)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]render.Mode{
		"design":      render.ModeDesign,
		" Properties": render.ModeProperties,
		"fill":        render.ModeFill,
		"":            render.ModeFill,
	}
	for raw, want := range cases {
		got, err := render.ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := render.ParseMode("canvas"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestBuildPageDesign(t *testing.T) {
	reg := fields.NewRegistry()
	def := sampleDefinition(t, reg)

	page, err := render.BuildPage(reg, render.ModeDesign, def, render.RenderOptions{Title: " Signup ", Selected: "name"})
	if err != nil {
		t.Fatalf("build page: %v", err)
	}
	if page.Title != "Signup" || page.Editor != nil || !page.Valid {
		t.Fatalf("unexpected page header: %+v", page)
	}
	if len(page.Views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(page.Views))
	}
	for _, view := range page.Views {
		if !view.ReadOnly {
			t.Fatalf("design view %q should be read only", view.ID)
		}
	}
}

func TestBuildPageProperties(t *testing.T) {
	reg := fields.NewRegistry()
	def := sampleDefinition(t, reg)

	page, err := render.BuildPage(reg, render.ModeProperties, def, render.RenderOptions{Selected: "name"})
	if err != nil {
		t.Fatalf("build page: %v", err)
	}
	if page.Editor == nil || page.Editor.InstanceID != "name" {
		t.Fatalf("expected editor for name, got %+v", page.Editor)
	}
	if control, ok := page.Editor.Control("label"); !ok || control.Value != "Name" {
		t.Fatalf("unexpected label control: %+v", control)
	}

	_, err = render.BuildPage(reg, render.ModeProperties, def, render.RenderOptions{Selected: "ghost"})
	if !errors.Is(err, render.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestBuildPageFill(t *testing.T) {
	reg := fields.NewRegistry()
	def := sampleDefinition(t, reg)

	page, err := render.BuildPage(reg, render.ModeFill, def, render.RenderOptions{
		Validate: true,
		Hidden:   map[string]string{"_csrf": "t"},
	})
	if err != nil {
		t.Fatalf("build page: %v", err)
	}
	if page.Valid {
		t.Fatalf("required name without value should be invalid")
	}
	if !page.Views[1].Invalid || page.Views[1].ReadOnly {
		t.Fatalf("unexpected name view: %+v", page.Views[1])
	}
	if page.SubmitLabel != "Submit" {
		t.Fatalf("default submit label not applied: %q", page.SubmitLabel)
	}
	if diff := cmp.Diff([]render.HiddenField{{Name: "_csrf", Value: "t"}}, page.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}

	page, err = render.BuildPage(reg, render.ModeFill, def, render.RenderOptions{Values: map[string]string{"name": "Ada"}})
	if err != nil {
		t.Fatalf("build page: %v", err)
	}
	if !page.Valid || page.Views[1].Value != "Ada" {
		t.Fatalf("expected valid page carrying the value, got %+v", page.Views[1])
	}
}

func TestBuildPageRejectsBrokenDefinition(t *testing.T) {
	reg := fields.NewRegistry()
	def := sampleDefinition(t, reg)
	def = append(def, def[0])

	if _, err := render.BuildPage(reg, render.ModeDesign, def, render.RenderOptions{}); !errors.Is(err, form.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, render.Mode, form.Definition, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer{name: "html"})
	reg.MustRegister(stubRenderer{name: "tui"})

	if err := reg.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if diff := cmp.Diff([]string{"html", "tui"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	fallback, err := reg.Get("")
	if err != nil || fallback.Name() != "html" {
		t.Fatalf("expected first registered renderer as default, got %v, %v", fallback, err)
	}
	if err := reg.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if reg.MustGet("").Name() != "tui" {
		t.Fatalf("default not updated")
	}
	if err := reg.SetDefault("pdf"); err == nil {
		t.Fatalf("expected error for unknown default")
	}
	if _, err := reg.Get("pdf"); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
}
