package crud

// Settings pairs a model with its CRUD configuration: the primary key, the
// natural-key flag and the debug switch. One Settings object is built per
// model/endpoint at process start and then treated as read-only.
type Settings struct {
	// Model is the model this settings object is made for.
	Model any

	// PrimaryKey lists the primary key field names.
	PrimaryKey []string

	// NaturalPrimaryKey is set when users choose primary key values.
	NaturalPrimaryKey bool

	// Debug enables additional consistency checks in CRUD handlers.
	Debug bool
}

// NewSettings creates settings for a model. The primary key defaults to the
// conventional "id" attribute when the model has one; otherwise configure it
// with PrimaryKeyConfig.
func NewSettings(model any) *Settings {
	s := &Settings{Model: model}

	info := NewModelInfo(model)
	if info.HasAttribute("id") {
		s.PrimaryKey = []string{"id"}
	}
	return s
}

// DebugConfig enables debug mode: CRUD handlers may make additional checks
// and throw extra errors to make sure things add up.
func (s *Settings) DebugConfig(debug bool) *Settings {
	s.Debug = debug
	return s
}

// PrimaryKeyConfig customizes the primary key. You will only need this with
// natural primary keys, composite keys, or other special cases.
func (s *Settings) PrimaryKeyConfig(primaryKey []string, naturalPrimaryKey bool) *Settings {
	s.PrimaryKey = append([]string(nil), primaryKey...)
	s.NaturalPrimaryKey = naturalPrimaryKey
	return s
}

// NewFields builds a field classification keyed by this settings' primary key.
func (s *Settings) NewFields() *Fields {
	return NewFields(s.PrimaryKey, s.NaturalPrimaryKey)
}
