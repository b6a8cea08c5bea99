package crud

// Fields describes how a model's fields are handled when doing CRUD:
// which of them the user may set on create(), and which on update().
//
// Two modes exist. By default only explicit exclusions and the primary key
// are enforced (blacklist mode). Once Fields() has classified every field as
// read-only, writable or constant, the engine is "fully configured" and
// input can be filtered by whitelisting instead.
//
// The derived include/exclude sets are computed once, on first read, and the
// partition is frozen from that point on: reconfiguring it later would
// silently invalidate answers already served, so it is rejected outright.
type Fields struct {
	// PrimaryKey lists the primary key field names.
	PrimaryKey []string

	// NaturalPrimaryKey is set when the user is expected to choose the
	// primary key value themselves.
	NaturalPrimaryKey bool

	// Custom excluded fields, accumulated by Exclude(). Union only.
	extraExcludeOnCreate FieldSet
	extraExcludeOnUpdate FieldSet

	// The full partition. ro: never settable by the user. rw: always
	// settable. const: settable at creation only.
	roFields    FieldSet
	rwFields    FieldSet
	constFields FieldSet

	// fullyConfigured is set by Fields() and never unset.
	fullyConfigured bool

	// frozen is set when any derived set has been read.
	frozen bool

	// Memoized derived sets.
	excludeOnCreate FieldSet
	includeOnCreate FieldSet
	excludeOnUpdate FieldSet
	includeOnUpdate FieldSet
}

// NewFields creates a field classification keyed by the primary key.
func NewFields(primaryKey []string, naturalPrimaryKey bool) *Fields {
	return &Fields{
		PrimaryKey:           append([]string(nil), primaryKey...),
		NaturalPrimaryKey:    naturalPrimaryKey,
		extraExcludeOnCreate: NewFieldSet(),
		extraExcludeOnUpdate: NewFieldSet(),
	}
}

// ExcludeSpec names additional fields to exclude from create() and update().
type ExcludeSpec struct {
	// Exclude applies to both create() and update().
	Exclude []string
	// OnCreate applies to create() only.
	OnCreate []string
	// OnUpdate applies to update() only.
	OnUpdate []string
}

// Exclude accumulates additional fields to exclude. Can be called multiple
// times; the effect is always a set union, never a replacement.
func (f *Fields) Exclude(spec ExcludeSpec) *Fields {
	f.assertNotFrozen("Exclude()")

	f.extraExcludeOnCreate = union(f.extraExcludeOnCreate, NewFieldSet(spec.Exclude...), NewFieldSet(spec.OnCreate...))
	f.extraExcludeOnUpdate = union(f.extraExcludeOnUpdate, NewFieldSet(spec.Exclude...), NewFieldSet(spec.OnUpdate...))
	return f
}

// FieldSpec is the complete partition of a model's fields.
type FieldSpec struct {
	// RO fields can never be set by the user: they get values automatically.
	RO []string
	// RORelations are read-only relationship attributes.
	RORelations []string
	// Const fields can only be set when the object is created.
	Const []string
	// RW fields can always be set by the user.
	RW []string
	// RWRelations are writable relationship attributes.
	RWRelations []string
}

// Fields declares the complete field partition and switches the engine into
// fully-configured mode, enabling whitelist-based input filtering.
//
// It must be called before any derived set has been read: changing the
// partition after an answer has been served would silently invalidate it,
// so a late call panics.
func (f *Fields) Fields(spec FieldSpec) *Fields {
	f.assertNotFrozen("Fields()")

	f.roFields = union(NewFieldSet(spec.RO...), NewFieldSet(spec.RORelations...))
	f.rwFields = union(NewFieldSet(spec.RW...), NewFieldSet(spec.RWRelations...))
	f.constFields = NewFieldSet(spec.Const...)
	f.fullyConfigured = true
	return f
}

// FullyConfigured reports whether every field has been classified with Fields().
func (f *Fields) FullyConfigured() bool {
	return f.fullyConfigured
}

func (f *Fields) assertNotFrozen(op string) {
	if f.frozen {
		panic("crud: " + op + " called after the derived field sets have been read; configure Fields before using it")
	}
}

// ExcludeOnCreate returns the fields to drop when create()ing an instance.
func (f *Fields) ExcludeOnCreate() FieldSet {
	if f.excludeOnCreate == nil {
		f.frozen = true

		exclude := union(f.extraExcludeOnCreate)
		if f.fullyConfigured {
			exclude = union(exclude, f.roFields)
		} else if !f.NaturalPrimaryKey {
			// Not fully configured: only the primary key is protected,
			// unless the user is meant to supply it.
			exclude = union(exclude, NewFieldSet(f.PrimaryKey...))
		}
		f.excludeOnCreate = exclude
	}
	return f.excludeOnCreate
}

// IncludeOnCreate returns the fields the user may set when create()ing an
// instance: everything writable plus the constants, which by definition are
// only settable then. Only available in fully-configured mode.
func (f *Fields) IncludeOnCreate() FieldSet {
	f.assertFullyConfigured("IncludeOnCreate()")

	if f.includeOnCreate == nil {
		f.frozen = true
		f.includeOnCreate = union(f.constFields, f.rwFields)
	}
	return f.includeOnCreate
}

// ExcludeOnUpdate returns the fields to drop when update()ing an instance:
// everything excluded at create time, plus the constants, which may no
// longer be changed after creation.
func (f *Fields) ExcludeOnUpdate() FieldSet {
	if f.excludeOnUpdate == nil {
		exclude := union(f.ExcludeOnCreate())
		if f.fullyConfigured {
			exclude = union(exclude, f.constFields)
		}
		f.excludeOnUpdate = exclude
	}
	return f.excludeOnUpdate
}

// IncludeOnUpdate returns the fields the user may set when update()ing an
// instance: exactly the writable fields. Only available in fully-configured
// mode.
func (f *Fields) IncludeOnUpdate() FieldSet {
	f.assertFullyConfigured("IncludeOnUpdate()")

	if f.includeOnUpdate == nil {
		f.frozen = true
		f.includeOnUpdate = union(f.rwFields)
	}
	return f.includeOnUpdate
}

func (f *Fields) assertFullyConfigured(op string) {
	if !f.fullyConfigured {
		panic("crud: " + op + " is only available when the field partition is fully configured with Fields()")
	}
}

// PrepareInputForCreate strips a user-submitted input map in place, dropping
// the fields the user may not set on create().
//
// In fully-configured mode with allowExtraKeys=false, unknown keys are
// silently whitelisted away rather than rejected: a UI that echoes back
// server-computed fields must not break. Otherwise the exclusion blacklist
// applies and unknown keys pass through untouched. Never fails.
func (f *Fields) PrepareInputForCreate(input map[string]any, allowExtraKeys bool) {
	f.prepareInput(input, allowExtraKeys, f.IncludeOnCreate, f.ExcludeOnCreate)
}

// PrepareInputForUpdate strips a user-submitted input map in place, dropping
// the fields the user may not set on update(). See PrepareInputForCreate.
func (f *Fields) PrepareInputForUpdate(input map[string]any, allowExtraKeys bool) {
	f.prepareInput(input, allowExtraKeys, f.IncludeOnUpdate, f.ExcludeOnUpdate)
}

func (f *Fields) prepareInput(input map[string]any, allowExtraKeys bool, include, exclude func() FieldSet) {
	// Fully configured: whitelist keys.
	if f.fullyConfigured && !allowExtraKeys {
		allowed := include()
		for key := range input {
			if !allowed.Has(key) {
				delete(input, key)
			}
		}
		return
	}

	// Else: blacklist keys.
	for key := range exclude() {
		delete(input, key)
	}
}
