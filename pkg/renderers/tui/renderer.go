// Package tui fills forms from a terminal. Interactive fields are prompted in
// definition order through a PromptDriver and re-prompted until valid; layout
// fields are printed.
package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/fill"
	"github.com/goliatone/go-formdesigner/pkg/form"
	"github.com/goliatone/go-formdesigner/pkg/logger"
	"github.com/goliatone/go-formdesigner/pkg/render"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

const (
	defaultMaxAttempts = 3
	skipOption         = "(skip)"
	separatorLine      = "----------------------------------------"
)

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	resolver     form.Resolver
	driver       PromptDriver
	outputFormat OutputFormat
	maxAttempts  int
	theme        Theme
	plain        *bluemonday.Policy
	log          *logger.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(resolver form.Resolver, options ...Option) (*Renderer, error) {
	if resolver == nil {
		return nil, errors.New("tui: resolver is required")
	}
	r := &Renderer{
		resolver:     resolver,
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		maxAttempts:  defaultMaxAttempts,
		plain:        bluemonday.StrictPolicy(),
		log:          logger.Nop(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	r.log = r.log.Named("tui")
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field in fill mode and returns the serialized
// payload. Design and properties modes print a text outline instead.
func (r *Renderer) Render(ctx context.Context, mode render.Mode, def form.Definition, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if mode != render.ModeFill {
		return r.outline(mode, def, opts)
	}

	session, err := fill.New(r.resolver, def, fill.WithValues(opts.Values), fill.WithLogger(r.log))
	if err != nil {
		return nil, err
	}
	mapped := render.MapErrorPayload(def, opts.Errors)

	if title := strings.TrimSpace(opts.Title); title != "" {
		if err := r.info(ctx, strings.ToUpper(title)); err != nil {
			return nil, err
		}
	}
	for _, message := range mapped.Form {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return nil, err
		}
	}

	for _, view := range session.Inputs() {
		if !view.Interactive() {
			if err := r.printLayout(ctx, view); err != nil {
				return nil, err
			}
			continue
		}
		for _, message := range mapped.Fields[view.ID] {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
				return nil, err
			}
		}
		if err := r.promptUntilValid(ctx, session, view); err != nil {
			return nil, err
		}
	}

	// every field was prompted, so only fields changed behind our back can
	// still fail here
	if !session.Validate() {
		return nil, fmt.Errorf("tui: %w: %s", fill.ErrFormNotValid, strings.Join(session.Errors(), ", "))
	}
	payload, err := session.Payload()
	if err != nil {
		return nil, err
	}
	return r.serialize(session.Inputs(), payload)
}

func (r *Renderer) promptUntilValid(ctx context.Context, session *fill.Session, view fields.View) error {
	for attempt := 1; ; attempt++ {
		value, err := r.prompt(ctx, view)
		if err != nil {
			return err
		}
		view.Submit(view.ID, value)
		if session.Status(view.ID) != fill.StatusInvalid {
			return nil
		}
		r.log.Debugw("invalid answer", "field_id", view.ID, "attempt", attempt)
		if attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrAttemptsExceeded, displayLabel(view))
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+invalidMessage(view, value)); err != nil {
			return err
		}
		view.Value = value
	}
}

func (r *Renderer) prompt(ctx context.Context, view fields.View) (string, error) {
	message := r.theme.PromptPrefix + displayLabel(view)
	help := r.plainText(view.HelperText)

	switch view.Widget {
	case fields.WidgetCheckbox:
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Help: help, Default: view.Value == "true"})
		if err != nil {
			return "", err
		}
		if ok {
			return "true", nil
		}
		return "false", nil

	case fields.WidgetSelect:
		if len(view.Options) == 0 && view.Required {
			// a select prompt needs at least one choice; the select value
			// rule accepts any non-empty text
			if err := r.info(ctx, "No options defined, type a value"); err != nil {
				return "", err
			}
			return r.driver.Input(ctx, InputConfig{Message: message, Help: help, Default: view.Value})
		}
		options := append([]string{}, view.Options...)
		if !view.Required {
			options = append([]string{skipOption}, options...)
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Help:         help,
			Options:      options,
			DefaultIndex: indexOf(options, view.Value),
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) || options[idx] == skipOption {
			return "", nil
		}
		return options[idx], nil

	case fields.WidgetTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: message, Help: help, Default: view.Value})

	default:
		if help == "" && view.Placeholder != "" {
			help = view.Placeholder
		}
		if view.Widget == fields.WidgetDate {
			message += " (YYYY-MM-DD)"
		}
		return r.driver.Input(ctx, InputConfig{Message: message, Help: help, Default: view.Value})
	}
}

func (r *Renderer) printLayout(ctx context.Context, view fields.View) error {
	switch view.Widget {
	case fields.WidgetHeading:
		text := r.plainText(view.Text)
		if view.Level <= 1 {
			text = strings.ToUpper(text)
		}
		return r.info(ctx, text)
	case fields.WidgetParagraph:
		return r.info(ctx, r.plainText(view.Text))
	case fields.WidgetSeparator:
		return r.driver.Info(ctx, separatorLine)
	default:
		return r.driver.Info(ctx, "")
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

// plainText strips markup and decodes entities so paragraph markup reads
// naturally in a terminal.
func (r *Renderer) plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.plain.Sanitize(s)))
}

func (r *Renderer) serialize(views []fields.View, payload fill.Payload) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for id, value := range payload {
			values.Set(id, value)
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, view := range views {
			value, ok := payload[view.ID]
			if !ok || !view.Interactive() {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", displayLabel(view), value)
		}
		return []byte(b.String()), nil
	default:
		return payload.Encode()
	}
}

func (r *Renderer) outline(mode render.Mode, def form.Definition, opts render.RenderOptions) ([]byte, error) {
	page, err := render.BuildPage(r.resolver, mode, def, opts)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if page.Title != "" {
		fmt.Fprintf(&b, "%s\n", page.Title)
	}
	for i, view := range page.Views {
		marker := " "
		if view.ID == page.Selected {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %2d. [%s] %s (%s)\n", marker, i+1, view.Type, outlineText(r, view), view.ID)
	}
	if page.Editor != nil {
		fmt.Fprintf(&b, "\nProperties of %s (%s)\n", page.Editor.InstanceID, page.Editor.Type)
		for _, control := range page.Editor.Controls {
			fmt.Fprintf(&b, "  %s: %v\n", control.Label, control.Value)
		}
	}
	return []byte(b.String()), nil
}

func outlineText(r *Renderer, view fields.View) string {
	if view.Interactive() {
		return displayLabel(view)
	}
	switch view.Widget {
	case fields.WidgetSpacer:
		return fmt.Sprintf("%dpx", view.Height)
	case fields.WidgetSeparator:
		return "---"
	default:
		return r.plainText(view.Text)
	}
}

func displayLabel(view fields.View) string {
	label := strings.TrimSpace(view.Label)
	if label == "" {
		label = view.ID
	}
	if view.Required {
		label += " *"
	}
	return label
}

func invalidMessage(view fields.View, value string) string {
	if strings.TrimSpace(value) == "" && view.Required {
		return "This field is required"
	}
	switch view.Widget {
	case fields.WidgetNumber:
		return "Enter a number"
	case fields.WidgetDate:
		return "Enter a date such as 2024-01-31"
	case fields.WidgetCheckbox:
		return "This box must be ticked"
	default:
		return "Invalid value"
	}
}
