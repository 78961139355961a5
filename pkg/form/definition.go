// Package form holds the ordered form definition shared by the designer and
// fill engines, and its persisted JSON encoding.
package form

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/fields"
)

var (
	// ErrDuplicateID is returned when two instances share an id.
	ErrDuplicateID = errors.New("form: duplicate instance id")
	// ErrEmptyID is returned when an instance has no id.
	ErrEmptyID = errors.New("form: instance id is required")
)

// Resolver looks up field descriptors. *fields.Registry satisfies it.
type Resolver interface {
	Resolve(tag fields.Type) (fields.Descriptor, error)
}

// Definition is the ordered list of field instances making up one form.
// Order drives rendering and tab order.
type Definition []fields.Instance

// Clone deep-copies the definition, including every configuration.
func (d Definition) Clone() Definition {
	if d == nil {
		return nil
	}
	out := make(Definition, len(d))
	for i, inst := range d {
		out[i] = inst.Clone()
	}
	return out
}

// IndexOf returns the position of id, or -1.
func (d Definition) IndexOf(id string) int {
	for i, inst := range d {
		if inst.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the instance with id.
func (d Definition) Find(id string) (fields.Instance, bool) {
	if idx := d.IndexOf(id); idx >= 0 {
		return d[idx], true
	}
	return fields.Instance{}, false
}

// IDs lists instance ids in order.
func (d Definition) IDs() []string {
	ids := make([]string, len(d))
	for i, inst := range d {
		ids[i] = inst.ID
	}
	return ids
}

// Check verifies the definition invariants: non-empty unique ids, registered
// types and configurations accepted by their descriptors.
func (d Definition) Check(resolver Resolver) error {
	seen := make(map[string]struct{}, len(d))
	for idx, inst := range d {
		if inst.ID == "" {
			return fmt.Errorf("%w (position %d)", ErrEmptyID, idx)
		}
		if _, dup := seen[inst.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, inst.ID)
		}
		seen[inst.ID] = struct{}{}

		desc, err := resolver.Resolve(inst.Type)
		if err != nil {
			return fmt.Errorf("form: instance %q: %w", inst.ID, err)
		}
		if err := desc.ValidateConfig(inst.Config); err != nil {
			return fmt.Errorf("form: instance %q: %w", inst.ID, err)
		}
	}
	return nil
}
