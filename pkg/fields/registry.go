package fields

import (
	"fmt"
	"sync"
)

// Registry maps field types to their descriptors. Lookups are O(1). A
// registry is populated at startup and then only read, so it can be shared by
// any number of designer and fill sessions.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[Type]Descriptor
	order       []Type
}

// NewEmptyRegistry creates a registry with no descriptors.
func NewEmptyRegistry() *Registry {
	return &Registry{
		descriptors: make(map[Type]Descriptor),
	}
}

// NewRegistry creates a registry holding the built-in descriptors.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	for _, desc := range Builtins() {
		reg.MustRegister(desc)
	}
	return reg
}

// Register adds a descriptor under its Type. Registering a type twice
// returns ErrDuplicateFieldType.
func (r *Registry) Register(desc Descriptor) error {
	if desc == nil {
		return fmt.Errorf("fields: descriptor is required")
	}
	tag := desc.Type()
	if tag == "" {
		return fmt.Errorf("fields: descriptor type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[tag]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFieldType, tag)
	}
	r.descriptors[tag] = desc
	r.order = append(r.order, tag)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(desc Descriptor) {
	if err := r.Register(desc); err != nil {
		panic(err)
	}
}

// Resolve returns the descriptor registered for tag.
func (r *Registry) Resolve(tag Type) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.descriptors[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldType, tag)
	}
	return desc, nil
}

// Has reports whether tag is registered.
func (r *Registry) Has(tag Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.descriptors[tag]
	return ok
}

// Types returns the registered tags in registration order.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Type(nil), r.order...)
}

// Palette returns the descriptors in registration order.
func (r *Registry) Palette() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, tag := range r.order {
		out = append(out, r.descriptors[tag])
	}
	return out
}

// NewInstance creates an instance of tag carrying the descriptor defaults.
func (r *Registry) NewInstance(tag Type, id string) (Instance, error) {
	desc, err := r.Resolve(tag)
	if err != nil {
		return Instance{}, err
	}
	return Instance{ID: id, Type: tag, Config: desc.Defaults()}, nil
}
