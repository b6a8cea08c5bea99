package crud

// CustomFieldSaver handles saving fields that must not be blindly assigned
// from user input: relationship attributes, passwords, anything that needs
// custom logic. The fields it declares are plucked out of the input before
// the data layer sees them, and handed to the saver instead.
type CustomFieldSaver struct {
	// Name identifies the saver in diagnostics.
	Name string

	// Fields lists the field names this saver is capable of saving.
	Fields []string

	// Save applies the plucked values to the instance being created or
	// modified. prev is the unmodified instance during update(), nil during
	// create(). Save is called even when none of its fields were provided:
	// absence is visible as a missing key in values.
	Save func(instance, prev any, values map[string]any) error
}

// CustomFieldSavers is an explicit registry of custom field savers for one
// CRUD handler. It replaces scanning a handler class for decorated methods:
// the handler author lists the savers directly.
type CustomFieldSavers struct {
	savers []CustomFieldSaver
}

// NewCustomFieldSavers builds a registry from the given savers.
func NewCustomFieldSavers(savers ...CustomFieldSaver) *CustomFieldSavers {
	return &CustomFieldSavers{savers: savers}
}

// Register adds a saver. Returns the registry for chaining.
func (c *CustomFieldSavers) Register(saver CustomFieldSaver) *CustomFieldSavers {
	c.savers = append(c.savers, saver)
	return c
}

// FieldNames returns the set of field names handled by any registered saver.
func (c *CustomFieldSavers) FieldNames() FieldSet {
	names := NewFieldSet()
	if c == nil {
		return names
	}
	for _, saver := range c.savers {
		for _, field := range saver.Fields {
			names[field] = struct{}{}
		}
	}
	return names
}

// Plucked pairs a saver with the values plucked from an input map for it.
type Plucked struct {
	Saver  CustomFieldSaver
	Values map[string]any
}

// Pluck removes every handled field from the input map and returns, per
// saver, the values it should apply. Every saver appears in the result even
// when none of its fields were provided.
func (c *CustomFieldSavers) Pluck(input map[string]any) []Plucked {
	if c == nil {
		return nil
	}

	plucked := make([]Plucked, 0, len(c.savers))
	for _, saver := range c.savers {
		values := make(map[string]any)
		for _, field := range saver.Fields {
			if value, ok := input[field]; ok {
				values[field] = value
			}
		}
		plucked = append(plucked, Plucked{Saver: saver, Values: values})
	}

	for _, saver := range c.savers {
		for _, field := range saver.Fields {
			delete(input, field)
		}
	}
	return plucked
}

// Save invokes every saver with its plucked values.
func (c *CustomFieldSavers) Save(plucked []Plucked, instance, prev any) error {
	for _, p := range plucked {
		if err := p.Saver.Save(instance, prev, p.Values); err != nil {
			return err
		}
	}
	return nil
}
