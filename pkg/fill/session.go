// Package fill implements the respondent side of a form: it records entered
// values, judges each one with its field descriptor and only releases a
// submission payload once every field passes.
package fill

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/form"
	"github.com/goliatone/go-formdesigner/pkg/logger"
)

var (
	// ErrInstanceNotFound is returned by SetValue for ids outside the form.
	ErrInstanceNotFound = errors.New("fill: instance not found")
	// ErrFormNotValid is returned by Payload while any field fails.
	ErrFormNotValid = errors.New("fill: form not valid")
)

// Status is the lifecycle state of one field.
type Status int

const (
	StatusUntouched Status = iota
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "untouched"
	}
}

// Payload maps field ids to entered values.
type Payload map[string]string

// Encode renders the payload as JSON text for storage.
func (p Payload) Encode() ([]byte, error) {
	if p == nil {
		p = Payload{}
	}
	return json.Marshal(map[string]string(p))
}

// DecodePayload parses stored submission content.
func DecodePayload(data []byte) (Payload, error) {
	var out Payload
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("fill: decode payload: %w", err)
	}
	if out == nil {
		out = Payload{}
	}
	return out, nil
}

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a logger for debug events.
func WithLogger(log *logger.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithValues seeds previously entered values, validating each one. Ids that
// are not part of the definition are ignored.
func WithValues(values map[string]string) Option {
	return func(s *Session) {
		s.seed = values
	}
}

// Session is the fill state for one respondent.
type Session struct {
	resolver   form.Resolver
	definition form.Definition
	values     map[string]string
	validity   map[string]bool

	seed map[string]string
	log  *logger.Logger
}

// New opens a fill session over def. The definition is copied and every
// instance type must resolve.
func New(resolver form.Resolver, def form.Definition, options ...Option) (*Session, error) {
	s := &Session{
		resolver:   resolver,
		definition: def.Clone(),
		values:     make(map[string]string),
		validity:   make(map[string]bool),
		log:        logger.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.log = s.log.Named("fill")

	for _, inst := range s.definition {
		if _, err := resolver.Resolve(inst.Type); err != nil {
			return nil, fmt.Errorf("fill: instance %q: %w", inst.ID, err)
		}
	}
	for id, value := range s.seed {
		if err := s.SetValue(id, value); err != nil && !errors.Is(err, ErrInstanceNotFound) {
			return nil, err
		}
	}
	s.seed = nil
	return s, nil
}

// SetValue stores value for id together with its validity. Invalid values
// are kept so the UI can show the error while the respondent corrects it.
func (s *Session) SetValue(id, value string) error {
	inst, ok := s.definition.Find(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInstanceNotFound, id)
	}
	desc, err := s.resolver.Resolve(inst.Type)
	if err != nil {
		return err
	}
	valid := desc.ValidateValue(inst, value)
	s.values[id] = value
	s.validity[id] = valid
	s.log.Debugw("value set", "field_id", id, "valid", valid)
	return nil
}

// Value returns the stored value for id.
func (s *Session) Value(id string) (string, bool) {
	value, ok := s.values[id]
	return value, ok
}

// Status reports the lifecycle state of id.
func (s *Session) Status(id string) Status {
	valid, ok := s.validity[id]
	switch {
	case !ok:
		return StatusUntouched
	case valid:
		return StatusValid
	default:
		return StatusInvalid
	}
}

// IsValid reports whether every field passes. Untouched fields are judged
// against the empty value, so only required ones block.
func (s *Session) IsValid() bool {
	for _, inst := range s.definition {
		if !s.fieldValid(inst) {
			return false
		}
	}
	return true
}

// Errors lists the ids of failing fields in definition order, including
// untouched required fields.
func (s *Session) Errors() []string {
	var out []string
	for _, inst := range s.definition {
		if !s.fieldValid(inst) {
			out = append(out, inst.ID)
		}
	}
	return out
}

// Validate judges every field, recording a status for untouched ones too, as
// a submit attempt does. It returns whether the form is valid.
func (s *Session) Validate() bool {
	ok := true
	for _, inst := range s.definition {
		value := s.values[inst.ID]
		valid := s.judge(inst, value)
		s.validity[inst.ID] = valid
		if !valid {
			ok = false
		}
	}
	return ok
}

// Payload returns a snapshot of the entered values restricted to ids of the
// definition. It fails with ErrFormNotValid while any field fails.
func (s *Session) Payload() (Payload, error) {
	if invalid := s.Errors(); len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %d field(s) failing", ErrFormNotValid, len(invalid))
	}
	out := make(Payload, len(s.values))
	for _, inst := range s.definition {
		if value, ok := s.values[inst.ID]; ok {
			out[inst.ID] = value
		}
	}
	return out, nil
}

// Inputs renders the fill views in definition order. Each view's Submit
// callback is wired to SetValue.
func (s *Session) Inputs() []fields.View {
	submit := func(id, value string) {
		_ = s.SetValue(id, value)
	}
	views := make([]fields.View, 0, len(s.definition))
	for _, inst := range s.definition {
		desc, err := s.resolver.Resolve(inst.Type)
		if err != nil {
			continue
		}
		views = append(views, desc.FillInput(inst, fields.FillProps{
			Value:   s.values[inst.ID],
			Invalid: s.Status(inst.ID) == StatusInvalid,
			Submit:  submit,
		}))
	}
	return views
}

// Definition returns a copy of the form being filled.
func (s *Session) Definition() form.Definition {
	return s.definition.Clone()
}

func (s *Session) fieldValid(inst fields.Instance) bool {
	if valid, ok := s.validity[inst.ID]; ok {
		return valid
	}
	return s.judge(inst, "")
}

func (s *Session) judge(inst fields.Instance, value string) bool {
	desc, err := s.resolver.Resolve(inst.Type)
	if err != nil {
		return false
	}
	return desc.ValidateValue(inst, value)
}
