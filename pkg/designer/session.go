// Package designer implements the editing engine behind the form builder
// canvas: an ordered, mutable definition plus the current selection and a
// dirty flag.
//
// A Session is owned by one open designer view. It performs no locking; the
// caller guarantees single-writer access.
package designer

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/form"
	"github.com/goliatone/go-formdesigner/pkg/logger"
)

// ErrInstanceNotFound is returned when an id is not part of the definition.
var ErrInstanceNotFound = errors.New("designer: instance not found")

// Option configures a Session.
type Option func(*Session)

// WithIDGenerator overrides the id source used by Add.
func WithIDGenerator(gen form.IDGenerator) Option {
	return func(s *Session) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger attaches a logger for debug events.
func WithLogger(log *logger.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// Session is the designer state: the definition being edited, the selected
// instance id and whether there are unsaved changes.
type Session struct {
	registry   *fields.Registry
	definition form.Definition
	selectedID string
	dirty      bool

	newID form.IDGenerator
	log   *logger.Logger
}

// New opens an empty designer session.
func New(registry *fields.Registry, options ...Option) *Session {
	s := &Session{
		registry:   registry,
		definition: form.Definition{},
		newID:      form.NewID,
		log:        logger.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.log = s.log.Named("designer")
	return s
}

// Add creates an instance of tag with fresh id and default configuration,
// inserts it at index (clamped to [0, Len()]), selects it and marks the
// session dirty.
func (s *Session) Add(tag fields.Type, index int) (fields.Instance, error) {
	inst, err := s.registry.NewInstance(tag, s.uniqueID())
	if err != nil {
		return fields.Instance{}, err
	}
	index = clamp(index, len(s.definition))
	s.definition = insertAt(s.definition, index, inst)
	s.selectedID = inst.ID
	s.dirty = true
	s.log.Debugw("field added", "field_id", inst.ID, "type", tag, "index", index)
	return inst.Clone(), nil
}

// Remove deletes the instance with id, clearing the selection if it pointed
// at it.
func (s *Session) Remove(id string) error {
	idx := s.definition.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrInstanceNotFound, id)
	}
	s.definition = append(s.definition[:idx:idx], s.definition[idx+1:]...)
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.dirty = true
	s.log.Debugw("field removed", "field_id", id, "index", idx)
	return nil
}

// Move relocates the instance with id to index (clamped to [0, Len()-1]),
// keeping the relative order of every other instance.
func (s *Session) Move(id string, index int) error {
	from := s.definition.IndexOf(id)
	if from < 0 {
		return fmt.Errorf("%w: %q", ErrInstanceNotFound, id)
	}
	inst := s.definition[from]
	rest := append(s.definition[:from:from], s.definition[from+1:]...)
	to := clamp(index, len(rest))
	s.definition = insertAt(rest, to, inst)
	s.dirty = true
	s.log.Debugw("field moved", "field_id", id, "from", from, "to", to)
	return nil
}

// Select marks id as the instance being edited. The id does not have to be
// part of the definition.
func (s *Session) Select(id string) {
	s.selectedID = id
}

// ClearSelection deselects any instance.
func (s *Session) ClearSelection() {
	s.selectedID = ""
}

// SelectedID returns the selected id, if any.
func (s *Session) SelectedID() (string, bool) {
	return s.selectedID, s.selectedID != ""
}

// Selected returns a copy of the selected instance when it exists in the
// definition.
func (s *Session) Selected() (fields.Instance, bool) {
	if s.selectedID == "" {
		return fields.Instance{}, false
	}
	inst, ok := s.definition.Find(s.selectedID)
	if !ok {
		return fields.Instance{}, false
	}
	return inst.Clone(), true
}

// UpdateConfig validates cfg against the instance's descriptor and, on
// success, replaces the instance configuration. On failure the session is
// left untouched and the error wraps fields.ErrInvalidConfiguration. The id
// and type of the instance never change.
func (s *Session) UpdateConfig(id string, cfg fields.Config) error {
	idx := s.definition.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrInstanceNotFound, id)
	}
	desc, err := s.registry.Resolve(s.definition[idx].Type)
	if err != nil {
		return err
	}
	if cfg == nil {
		return &fields.ConfigError{Type: desc.Type(), Issues: []fields.Issue{{Message: "configuration is required"}}}
	}
	if err := desc.ValidateConfig(cfg); err != nil {
		s.log.Debugw("configuration rejected", "field_id", id, "error", err)
		return err
	}
	s.definition[idx].Config = cfg.Clone()
	s.dirty = true
	s.log.Debugw("configuration updated", "field_id", id)
	return nil
}

// PropertyEditor renders the property panel of the selected instance. A
// successful commit updates the configuration and clears the selection.
func (s *Session) PropertyEditor() (fields.Editor, bool) {
	inst, ok := s.Selected()
	if !ok {
		return fields.Editor{}, false
	}
	desc, err := s.registry.Resolve(inst.Type)
	if err != nil {
		return fields.Editor{}, false
	}
	return desc.PropertyEditor(inst, fields.EditorProps{
		Apply: func(cfg fields.Config) error {
			if err := s.UpdateConfig(inst.ID, cfg); err != nil {
				return err
			}
			s.ClearSelection()
			return nil
		},
	}), true
}

// Previews renders the design canvas, one read-only view per instance.
func (s *Session) Previews() []fields.View {
	views := make([]fields.View, 0, len(s.definition))
	for _, inst := range s.definition {
		desc, err := s.registry.Resolve(inst.Type)
		if err != nil {
			continue
		}
		views = append(views, desc.DesignPreview(inst))
	}
	return views
}

// Definition returns a deep copy of the current definition.
func (s *Session) Definition() form.Definition {
	return s.definition.Clone()
}

// Encode serializes the current definition to its persisted JSON text.
func (s *Session) Encode() ([]byte, error) {
	return form.Encode(s.definition)
}

// Load replaces the definition after checking its invariants. The selection
// is cleared and the session becomes clean.
func (s *Session) Load(def form.Definition) error {
	if err := def.Check(s.registry); err != nil {
		return err
	}
	s.definition = def.Clone()
	if s.definition == nil {
		s.definition = form.Definition{}
	}
	s.selectedID = ""
	s.dirty = false
	s.log.Debugw("definition loaded", "fields", len(def))
	return nil
}

// Instances returns copies of the instances in order.
func (s *Session) Instances() []fields.Instance {
	return []fields.Instance(s.Definition())
}

// Len returns the number of instances.
func (s *Session) Len() int { return len(s.definition) }

// IndexOf returns the position of id, or -1.
func (s *Session) IndexOf(id string) int { return s.definition.IndexOf(id) }

// Dirty reports unsaved changes.
func (s *Session) Dirty() bool { return s.dirty }

// MarkSaved clears the dirty flag after the definition has been persisted.
func (s *Session) MarkSaved() { s.dirty = false }

// uniqueID draws ids until one is unused. A generator that keeps repeating is
// replaced by form.NewID.
func (s *Session) uniqueID() string {
	for attempt := 0; attempt < 8; attempt++ {
		id := s.newID()
		if id != "" && s.definition.IndexOf(id) < 0 {
			return id
		}
	}
	for {
		if id := form.NewID(); s.definition.IndexOf(id) < 0 {
			return id
		}
	}
}

func clamp(index, max int) int {
	if index < 0 {
		return 0
	}
	if index > max {
		return max
	}
	return index
}

func insertAt(def form.Definition, index int, inst fields.Instance) form.Definition {
	def = append(def, fields.Instance{})
	copy(def[index+1:], def[index:])
	def[index] = inst
	return def
}
