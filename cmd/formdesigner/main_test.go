package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/goliatone/go-formdesigner/internal/config"
	"github.com/goliatone/go-formdesigner/pkg/logger"
	"github.com/goliatone/go-formdesigner/pkg/renderers/tui"
)

const nameDefinition = `[
  // single required input
  {"id": "name", "type": "text", "extraAttributes": {"label": "Full name", "required": true}},
]`

type answerDriver struct {
	answers map[string]string
	prompts []string
}

func (d *answerDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.prompts = append(d.prompts, cfg.Message)
	for label, answer := range d.answers {
		if strings.Contains(cfg.Message, label) {
			return answer, nil
		}
	}
	return "", nil
}

func (d *answerDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) { return true, nil }
func (d *answerDriver) Select(context.Context, tui.SelectConfig) (int, error)    { return 0, nil }
func (d *answerDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", nil
}
func (d *answerDriver) Info(context.Context, string) error { return nil }

func writeDefinition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signup.jsonc")
	if err := os.WriteFile(path, []byte(nameDefinition), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestTypesCommand(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	out, err := runCLI(t, "types")
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	for _, want := range []string{"TYPE", "text", "paragraph", "spacer"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runCLI(t, "explode"); err == nil {
		t.Fatalf("expected unknown command error")
	}
	if _, err := runCLI(t); err == nil {
		t.Fatalf("expected missing command error")
	}
}

func TestRenderCommand(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	path := writeDefinition(t)

	out, err := runCLI(t, "render", "--definition", path, "--mode", "fill", "--value", "name=Ada")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `method="post"`) || !strings.Contains(out, "Ada") {
		t.Fatalf("unexpected fill output:\n%s", out)
	}

	out, err = runCLI(t, "render", "--definition", path, "--renderer", "tui", "--mode", "design")
	if err != nil {
		t.Fatalf("render outline: %v", err)
	}
	if !strings.Contains(out, "Full name") {
		t.Fatalf("expected outline to list the field:\n%s", out)
	}

	if _, err := runCLI(t, "render", "--definition", path, "--mode", "preview"); err == nil {
		t.Fatalf("expected unknown mode error")
	}
}

func TestSchemaCommand(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	path := writeDefinition(t)

	out, err := runCLI(t, "schema", "--definition", path, "--name", "Signup")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, `"openapi": "3.0.3"`) || !strings.Contains(out, `"/submissions"`) {
		t.Fatalf("unexpected document:\n%s", out)
	}

	payload := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(payload, []byte(`{"name":""}`), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if _, err := runCLI(t, "schema", "--definition", path, "--validate", payload); err == nil {
		t.Fatalf("expected empty required value to be rejected")
	}
}

func TestFillCommand(t *testing.T) {
	path := writeDefinition(t)
	var stdout, stderr bytes.Buffer
	a := newApp(config.Default(), logger.Nop(), &stdout, &stderr)
	driver := &answerDriver{answers: map[string]string{"Full name": "Ada"}}
	a.tuiOptions = []tui.Option{tui.WithPromptDriver(driver)}

	if err := runFill(context.Background(), a, []string{"--definition", path}); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != `{"name":"Ada"}` {
		t.Fatalf("unexpected payload %q", got)
	}
	if len(driver.prompts) != 1 {
		t.Fatalf("expected one prompt, got %v", driver.prompts)
	}
}

func TestStoredFormCommands(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "forms.db")
	t.Setenv(config.EnvDSN, dsn)
	path := writeDefinition(t)

	out, err := runCLI(t, "new", "--name", "Signup", "--definition", path, "--publish")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, "published: true") {
		t.Fatalf("expected published form:\n%s", out)
	}
	id := regexp.MustCompile(`id: (\S+)`).FindStringSubmatch(out)
	share := regexp.MustCompile(`share_url: (\S+)`).FindStringSubmatch(out)
	if id == nil || share == nil {
		t.Fatalf("missing id or share url:\n%s", out)
	}

	out, err = runCLI(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Signup") || !strings.Contains(out, "bounce rate 100.0%") {
		t.Fatalf("unexpected list output:\n%s", out)
	}

	out, err = runCLI(t, "render", "--share", share[1], "--hidden", "_csrf=tok")
	if err != nil {
		t.Fatalf("render shared: %v", err)
	}
	for _, want := range []string{
		`<h1>Signup</h1>`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<input type="hidden" name="share_url" value="` + share[1] + `">`,
		`<input type="hidden" name="fingerprint" value="`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in shared page:\n%s", want, out)
		}
	}
	if strings.Contains(out, `name="fingerprint" value=""`) {
		t.Fatalf("expected a definition fingerprint:\n%s", out)
	}
	if _, err := runCLI(t, "render", "--share", share[1], "--mode", "design"); err == nil {
		t.Fatalf("expected --share to require fill mode")
	}

	cfg := config.Default()
	cfg.Database.DSN = dsn
	var stdout, stderr bytes.Buffer
	a := newApp(cfg, logger.Nop(), &stdout, &stderr)
	a.tuiOptions = []tui.Option{tui.WithPromptDriver(&answerDriver{answers: map[string]string{"Full name": "Grace"}})}
	err = runFill(context.Background(), a, []string{"--share", share[1]})
	a.close()
	if err != nil {
		t.Fatalf("fill shared: %v", err)
	}
	if !strings.Contains(stdout.String(), "recorded for Signup") {
		t.Fatalf("unexpected fill output:\n%s", stdout.String())
	}

	out, err = runCLI(t, "submissions", id[1])
	if err != nil {
		t.Fatalf("submissions: %v", err)
	}
	if !strings.Contains(out, "Full name") || !strings.Contains(out, "Grace") {
		t.Fatalf("unexpected submissions output:\n%s", out)
	}

	if _, err := runCLI(t, "publish"); err == nil {
		t.Fatalf("expected usage error without a form id")
	}
}
