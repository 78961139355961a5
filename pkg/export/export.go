// Package export describes submission payloads as OpenAPI 3 schemas and
// flattens stored submissions into tables.
package export

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/fill"
	"github.com/goliatone/go-formdesigner/pkg/form"
	"github.com/goliatone/go-formdesigner/pkg/store"
)

// ErrPayloadRejected wraps schema violations reported by ValidatePayload.
var ErrPayloadRejected = errors.New("export: payload rejected")

const (
	numberPattern = `^[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?$`
	datePattern   = `^\d{4}-\d{2}-\d{2}(T\S+)?$`

	// OptionsExtension carries select options. They are informational only:
	// a select accepts values outside its list.
	OptionsExtension = "x-options"
	// TypeExtension records the field type tag of a property.
	TypeExtension = "x-field-type"
	// SchemaName is the component name used by Document.
	SchemaName = "Submission"
)

// SubmissionSchema builds the object schema of a fill payload for def. Layout
// fields are skipped.
func SubmissionSchema(resolver form.Resolver, def form.Definition) (*openapi3.Schema, error) {
	schema := openapi3.NewObjectSchema()
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(false)}

	for _, inst := range def {
		input, err := isInput(resolver, inst)
		if err != nil {
			return nil, err
		}
		if !input {
			continue
		}
		property := propertySchema(inst)
		schema.WithProperty(inst.ID, property)
		if inst.Required() {
			schema.Required = append(schema.Required, inst.ID)
		}
	}
	return schema, nil
}

func propertySchema(inst fields.Instance) *openapi3.Schema {
	required := inst.Required()
	property := openapi3.NewStringSchema()
	property.Title = inst.Label()
	property.Extensions = map[string]any{TypeExtension: string(inst.Type)}

	switch cfg := inst.Config.(type) {
	case fields.TextConfig:
		property.Description = cfg.HelperText
	case fields.TextareaConfig:
		property.Description = cfg.HelperText
	case fields.NumberConfig:
		property.Description = cfg.HelperText
		property.Pattern = optionalPattern(numberPattern, required)
	case fields.SelectConfig:
		property.Description = cfg.HelperText
		options := make([]any, 0, len(cfg.Options))
		for _, option := range cfg.Options {
			options = append(options, option)
		}
		property.Extensions[OptionsExtension] = options
	case fields.CheckboxConfig:
		property.Description = cfg.HelperText
		if required {
			property.Enum = []any{"true"}
		} else {
			property.Enum = []any{"true", "false", ""}
		}
		return property
	case fields.DateConfig:
		property.Description = cfg.HelperText
		property.Pattern = optionalPattern(datePattern, required)
	}
	if required {
		property.MinLength = 1
	}
	return property
}

func optionalPattern(pattern string, required bool) string {
	if required {
		return pattern
	}
	return `^$|` + pattern
}

func isInput(resolver form.Resolver, inst fields.Instance) (bool, error) {
	desc, err := resolver.Resolve(inst.Type)
	if err != nil {
		return false, fmt.Errorf("export: instance %q: %w", inst.ID, err)
	}
	return desc.DesignPreview(inst).Interactive(), nil
}

// Document wraps the submission schema of def in an OpenAPI 3 document with a
// single POST operation on /submissions.
func Document(name string, resolver form.Resolver, def form.Definition) (*openapi3.T, error) {
	schema, err := SubmissionSchema(resolver, def)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "Form"
	}

	ref := "#/components/schemas/" + SchemaName
	operation := &openapi3.Operation{
		OperationID: "submit",
		Summary:     "Submit " + name,
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchemaRef(openapi3.NewSchemaRef(ref, schema)),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(201, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Submission recorded"),
			}),
		),
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: name, Version: "1.0.0"},
		Paths:   openapi3.NewPaths(openapi3.WithPath("/submissions", &openapi3.PathItem{Post: operation})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{SchemaName: openapi3.NewSchemaRef("", schema)},
		},
	}, nil
}

// ValidatePayload checks payload against the submission schema of def.
func ValidatePayload(resolver form.Resolver, def form.Definition, payload fill.Payload) error {
	schema, err := SubmissionSchema(resolver, def)
	if err != nil {
		return err
	}
	value := make(map[string]any, len(payload))
	for id, v := range payload {
		value[id] = v
	}
	if err := schema.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("%w: %w", ErrPayloadRejected, err)
	}
	return nil
}

// ValidateDocument runs the OpenAPI structural checks on doc.
func ValidateDocument(ctx context.Context, doc *openapi3.T) error {
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("export: validate document: %w", err)
	}
	return nil
}

// SubmittedAtHeader is the trailing column added by Table.
const SubmittedAtHeader = "Submitted at"

// Table flattens submissions into rows. Headers are the labels of the input
// fields of def in order plus a submission timestamp column. Missing answers
// are empty cells.
func Table(resolver form.Resolver, def form.Definition, submissions []store.Submission) ([]string, [][]string, error) {
	var (
		headers []string
		ids     []string
	)
	for _, inst := range def {
		input, err := isInput(resolver, inst)
		if err != nil {
			return nil, nil, err
		}
		if !input {
			continue
		}
		headers = append(headers, inst.Label())
		ids = append(ids, inst.ID)
	}
	headers = append(headers, SubmittedAtHeader)

	rows := make([][]string, 0, len(submissions))
	for _, sub := range submissions {
		payload, err := fill.DecodePayload([]byte(sub.Content))
		if err != nil {
			return nil, nil, fmt.Errorf("export: submission %s: %w", strconv.FormatInt(sub.ID, 10), err)
		}
		row := make([]string, 0, len(headers))
		for _, id := range ids {
			row = append(row, payload[id])
		}
		row = append(row, sub.CreatedAt.UTC().Format(time.RFC3339))
		rows = append(rows, row)
	}
	return headers, rows, nil
}
