package template_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formdesigner/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formdesigner/pkg/testsupport"
)

var templateFiles = fstest.MapFS{
	"hello.tpl":    {Data: []byte("Hello {{ name }}!")},
	"struct.tpl":   {Data: []byte("{{ view.Label }} has {{ view.Rows }} rows{% if view.Required %} (required){% endif %}")},
	"use-bang.tpl": {Data: []byte("{{ name|bang }}")},
	"global.tpl":   {Data: []byte("{{ clean(text)|safe }}")},
	"escape.tpl":   {Data: []byte("<p>{{ text }}</p>")},
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if want := "Hello Ada!"; result != want || written != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q / %q", want, result, written)
	}
}

func TestGoTemplateEngine_ReadsStructsDirectly(t *testing.T) {
	engine := newEngine(t)
	view := struct {
		Label    string
		Rows     int
		Required bool
	}{Label: "Bio", Rows: 3, Required: true}

	result, err := engine.RenderTemplate("struct", map[string]any{"view": view})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Bio has 3 rows (required)"; result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_EscapesValues(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("escape", map[string]any{"text": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "<p>&lt;b&gt;x&lt;/b&gt;</p>"; result != want {
		t.Fatalf("expected escaped output\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_WithFilter(t *testing.T) {
	bang := func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(in.String() + "!"), nil
	}
	engine, err := gotemplate.New(gotemplate.WithFS(templateFiles), gotemplate.WithFilter("bang", bang))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	// a second engine replaces the process-wide filter instead of failing
	if _, err := gotemplate.New(gotemplate.WithFS(templateFiles), gotemplate.WithFilter("bang", bang)); err != nil {
		t.Fatalf("second engine: %v", err)
	}

	result, err := engine.RenderTemplate("use-bang", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Ada!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_WithGlobalIsPerEngine(t *testing.T) {
	upper, err := gotemplate.New(gotemplate.WithFS(templateFiles), gotemplate.WithGlobal("clean", strings.ToUpper))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	lower, err := gotemplate.New(gotemplate.WithFS(templateFiles), gotemplate.WithGlobal("clean", strings.ToLower))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	for engine, want := range map[*gotemplate.Engine]string{upper: "<B>X</B>", lower: "<b>x</b>"} {
		result, err := engine.RenderTemplate("global", map[string]any{"text": "<b>X</b>"})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if result != want {
			t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
		}
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("absent", nil); err == nil {
		t.Fatalf("expected error for a missing template")
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without fs")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(gotemplate.WithFS(templateFiles))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
