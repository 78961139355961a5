package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-formdesigner/pkg/export"
	"github.com/goliatone/go-formdesigner/pkg/fill"
	"github.com/goliatone/go-formdesigner/pkg/form"
	"github.com/goliatone/go-formdesigner/pkg/render"
	"github.com/goliatone/go-formdesigner/pkg/renderers/tui"
)

func newFlagSet(a *app, name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(a.stderr)
	return flags
}

func parseFlags(flags *pflag.FlagSet, args []string) (bool, error) {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func runTypes(_ context.Context, a *app, args []string) error {
	flags := newFlagSet(a, "types")
	asJSON := flags.Bool("json", false, "print the palette as JSON")
	if ok, err := parseFlags(flags, args); !ok {
		return err
	}

	palette := a.registry.Palette()
	if *asJSON {
		type entry struct {
			Type  string `json:"type"`
			Label string `json:"label"`
			Group string `json:"group"`
			Icon  string `json:"icon,omitempty"`
		}
		out := make([]entry, 0, len(palette))
		for _, desc := range palette {
			meta := desc.Meta()
			out = append(out, entry{Type: string(desc.Type()), Label: meta.Label, Group: string(meta.Group), Icon: meta.Icon})
		}
		return writeJSON(a, out)
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tGROUP\tLABEL")
	for _, desc := range palette {
		meta := desc.Meta()
		fmt.Fprintf(w, "%s\t%s\t%s\n", desc.Type(), meta.Group, meta.Label)
	}
	return w.Flush()
}

func runRender(ctx context.Context, a *app, args []string) error {
	flags := newFlagSet(a, "render")
	definition := flags.StringP("definition", "d", "", "definition file (JSON or JSONC, - for stdin)")
	rendererName := flags.StringP("renderer", "r", "", "renderer name (default from configuration)")
	modeName := flags.StringP("mode", "m", string(render.ModeFill), "design, properties or fill")
	selected := flags.String("selected", "", "instance id shown in the properties panel")
	title := flags.String("title", "", "page title")
	action := flags.String("action", "", "form action url in fill mode")
	values := flags.StringToString("value", nil, "prefilled value as id=value (repeatable)")
	validate := flags.Bool("validate", false, "judge every field as a submit attempt would")
	hidden := flags.StringToString("hidden", nil, "extra hidden input as name=value in fill mode (repeatable)")
	share := flags.String("share", "", "render the fill page of the published stored form with this share url")
	output := flags.StringP("output", "o", "", "output file (stdout if empty)")
	if ok, err := parseFlags(flags, args); !ok {
		return err
	}

	mode, err := render.ParseMode(*modeName)
	if err != nil {
		return err
	}
	options := render.RenderOptions{
		Title:    *title,
		Selected: *selected,
		Values:   *values,
		Validate: *validate,
		Action:   *action,
		Hidden:   *hidden,
	}

	var def form.Definition
	if *share != "" {
		if mode != render.ModeFill {
			return fmt.Errorf("--share renders fill mode only, got %q", mode)
		}
		if def, err = sharedPage(ctx, a, *share, &options); err != nil {
			return err
		}
	} else if def, err = a.loadDefinition(*definition); err != nil {
		return err
	}

	renderers, err := a.renderers()
	if err != nil {
		return err
	}
	renderer, err := renderers.Get(*rendererName)
	if err != nil {
		return err
	}

	out, err := renderer.Render(ctx, mode, def, options)
	if err != nil {
		return err
	}
	return writeOutput(a, *output, out)
}

// sharedPage opens a published form as a respondent would and tags the page
// with its share url and definition fingerprint.
func sharedPage(ctx context.Context, a *app, shareURL string, options *render.RenderOptions) (form.Definition, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}
	record, session, err := svc.OpenFill(ctx, shareURL)
	if err != nil {
		return nil, err
	}
	if options.Title == "" {
		options.Title = record.Name
	}
	options.Hidden = render.MergeHiddenFields(options.Hidden,
		render.ShareToken(record.ShareURL),
		render.VersionField(record.Fingerprint),
	)
	return session.Definition(), nil
}

func runFill(ctx context.Context, a *app, args []string) error {
	flags := newFlagSet(a, "fill")
	definition := flags.StringP("definition", "d", "", "definition file (JSON or JSONC)")
	format := flags.StringP("format", "f", string(tui.OutputFormatJSON), "payload format: json, form or pretty")
	share := flags.String("share", "", "fill the published stored form with this share url and record the submission")
	output := flags.StringP("output", "o", "", "output file (stdout if empty)")
	if ok, err := parseFlags(flags, args); !ok {
		return err
	}

	if *share != "" {
		return fillShared(ctx, a, *share)
	}

	def, err := a.loadDefinition(*definition)
	if err != nil {
		return err
	}
	renderers, err := a.renderers(tui.WithOutputFormat(tui.OutputFormat(*format)))
	if err != nil {
		return err
	}
	renderer, err := renderers.Get(tui.Name)
	if err != nil {
		return err
	}
	out, err := renderer.Render(ctx, render.ModeFill, def, render.RenderOptions{})
	if err != nil {
		return err
	}
	return writeOutput(a, *output, out)
}

// fillShared prompts for a stored form and records the answers. The terminal
// renderer collects the values, the service validates and stores them.
func fillShared(ctx context.Context, a *app, shareURL string) error {
	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	record, session, err := svc.OpenFill(ctx, shareURL)
	if err != nil {
		return err
	}
	renderers, err := a.renderers(tui.WithOutputFormat(tui.OutputFormatJSON))
	if err != nil {
		return err
	}
	renderer, err := renderers.Get(tui.Name)
	if err != nil {
		return err
	}
	raw, err := renderer.Render(ctx, render.ModeFill, session.Definition(), render.RenderOptions{Title: record.Name})
	if err != nil {
		return err
	}
	payload, err := fill.DecodePayload(raw)
	if err != nil {
		return err
	}
	for id, value := range payload {
		if err := session.SetValue(id, value); err != nil {
			return err
		}
	}
	sub, err := svc.Submit(ctx, record.ID, session)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "submission %d recorded for %s\n", sub.ID, record.Name)
	return nil
}

func runSchema(_ context.Context, a *app, args []string) error {
	flags := newFlagSet(a, "schema")
	definition := flags.StringP("definition", "d", "", "definition file (JSON or JSONC)")
	name := flags.StringP("name", "n", "", "form name used as the document title")
	payloadPath := flags.String("validate", "", "validate a JSON payload file instead of printing the document")
	if ok, err := parseFlags(flags, args); !ok {
		return err
	}

	def, err := a.loadDefinition(*definition)
	if err != nil {
		return err
	}

	if *payloadPath != "" {
		data, err := os.ReadFile(*payloadPath)
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		payload, err := fill.DecodePayload(data)
		if err != nil {
			return err
		}
		if err := export.ValidatePayload(a.registry, def, payload); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "payload is valid")
		return nil
	}

	doc, err := export.Document(*name, a.registry, def)
	if err != nil {
		return err
	}
	return writeJSON(a, doc)
}

func runNew(ctx context.Context, a *app, args []string) error {
	flags := newFlagSet(a, "new")
	name := flags.StringP("name", "n", "", "form name (at least 4 characters)")
	description := flags.String("description", "", "form description")
	definition := flags.StringP("definition", "d", "", "optional definition file to store")
	publish := flags.Bool("publish", false, "publish the form right away")
	if ok, err := parseFlags(flags, args); !ok {
		return err
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	record, err := svc.CreateForm(ctx, *name, *description)
	if err != nil {
		return err
	}

	if *definition != "" {
		def, err := a.loadDefinition(*definition)
		if err != nil {
			return err
		}
		session, err := svc.OpenDesigner(ctx, record.ID)
		if err != nil {
			return err
		}
		if err := session.Load(def); err != nil {
			return err
		}
		if _, err := svc.SaveDesigner(ctx, record.ID, session); err != nil {
			return err
		}
	}
	if *publish {
		if record, err = svc.Publish(ctx, record.ID); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.stdout, "id: %s\nshare_url: %s\npublished: %t\n", record.ID, record.ShareURL, record.Published)
	return nil
}

func runList(ctx context.Context, a *app, args []string) error {
	flags := newFlagSet(a, "list")
	if ok, err := parseFlags(flags, args); !ok {
		return err
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	forms, err := svc.Forms(ctx)
	if err != nil {
		return err
	}
	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPUBLISHED\tVISITS\tSUBMISSIONS")
	for _, record := range forms {
		fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%d\n", record.ID, record.Name, record.Published, record.Visits, record.Submissions)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "visits %d, submissions %d, submission rate %.1f%%, bounce rate %.1f%%\n",
		stats.Visits, stats.Submissions, stats.SubmissionRate, stats.BounceRate)
	return nil
}

func runPublish(ctx context.Context, a *app, args []string) error {
	flags := newFlagSet(a, "publish")
	if ok, err := parseFlags(flags, args); !ok {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("usage: formdesigner publish <form-id>")
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	record, err := svc.Publish(ctx, flags.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "published %s at %s\n", record.ID, record.ShareURL)
	return nil
}

func runSubmissions(ctx context.Context, a *app, args []string) error {
	flags := newFlagSet(a, "submissions")
	if ok, err := parseFlags(flags, args); !ok {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("usage: formdesigner submissions <form-id>")
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	headers, rows, err := svc.SubmissionTable(ctx, flags.Arg(0))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func writeJSON(a *app, value any) error {
	encoder := json.NewEncoder(a.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func writeOutput(a *app, path string, data []byte) error {
	if path == "" {
		_, err := a.stdout.Write(data)
		if err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
			_, err = fmt.Fprintln(a.stdout)
		}
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(a.stdout, "written to %s\n", path)
	return nil
}
