// Package fields defines the field-type plugin surface of the form designer.
//
// Every kind of field a form can contain (text input, select, title, spacer
// ...) is described by a Descriptor: its default configuration, the rules a
// configuration must satisfy, three independent render contracts (design
// preview, property editor, fill input) and the predicate that judges an
// entered value. Descriptors are collected in a Registry keyed by Type; the
// registry is the only extension point, so adding a field kind never touches
// the designer or fill engines.
//
// Built-in descriptors are assembled from the generic Kind helper so each
// render and validate function receives its own typed configuration:
//
//	reg := fields.NewRegistry()
//	desc, err := reg.Resolve(fields.TypeText)
//	if err != nil {
//		return err
//	}
//	inst := fields.Instance{ID: "a1", Type: desc.Type(), Config: desc.Defaults()}
//	ok := desc.ValidateValue(inst, "hello")
package fields
