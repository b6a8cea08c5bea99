// Package crud provides field-level access control for create/update
// operations of CRUD-style APIs.
//
// The center of the package is Fields: a build-time classification of a
// model's fields into read-only, writable and constant groups, from which
// the effective include/exclude sets for create() and update() are derived.
// User-supplied input is then stripped down with PrepareInputForCreate and
// PrepareInputForUpdate before it ever reaches the data layer.
//
//	fields := crud.NewFields([]string{"id"}, false).
//	    Fields(crud.FieldSpec{
//	        RO:    []string{"id"},
//	        Const: []string{"login"},
//	        RW:    []string{"name"},
//	    })
//
//	fields.PrepareInputForCreate(input, false) // drops "id" and unknown keys
//
// A Fields object is configured once at start-up, then treated as
// a read-only configuration for the rest of the process. Validate it in your
// test suite with ValidateConfiguration: it runs a battery of independent
// consistency checks against the model and reports every failure at once.
package crud
