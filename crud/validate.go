package crud

import (
	"fmt"
	"strings"
)

// ConfigError aggregates several independent configuration failures.
// Configuration mistakes often come in clusters; fixing them one re-run at a
// time is wasteful, so the validators report everything at once.
type ConfigError struct {
	Errors []error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("invalid CRUD configuration (%d problems):", len(e.Errors)))
	for _, err := range e.Errors {
		b.WriteString("\n* ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() []error {
	return e.Errors
}

// validator is one independent consistency check.
type validator func(f *Fields, model *ModelInfo, savers *CustomFieldSavers) error

// ValidateConfiguration runs a battery of independent consistency checks of
// this field classification against the target model and the custom field
// savers of its CRUD handler. Intended to be invoked from tests, never on
// production request paths.
//
// When several checks fail, all failures are reported together in a single
// *ConfigError; a lone failure is returned unwrapped so the common case
// stays simple.
func (f *Fields) ValidateConfiguration(model any, savers *CustomFieldSavers) error {
	info := NewModelInfo(model)

	var errs []error
	for _, validate := range []validator{
		validateFieldNamesKnownToModel,
		validateCustomFieldNamesKnown,
		validateRelationshipsHandled,
		validatePrimaryKeyNotWritable,
	} {
		if err := validate(f, info, savers); err != nil {
			errs = append(errs, err)
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &ConfigError{Errors: errs}
	}
}

// validateFieldNamesKnownToModel checks that every field name mentioned
// anywhere in the configuration exists on the model. This catches typos: you
// may think you have excluded a field, but misspelled it.
func validateFieldNamesKnownToModel(f *Fields, model *ModelInfo, _ *CustomFieldSavers) error {
	mentioned := union(
		NewFieldSet(f.PrimaryKey...),
		f.extraExcludeOnCreate,
		f.extraExcludeOnUpdate,
	)
	if f.fullyConfigured {
		mentioned = union(mentioned, f.roFields, f.rwFields, f.constFields)
	}

	unknown := difference(mentioned, model.AttributeNames())
	if len(unknown) > 0 {
		return fmt.Errorf(
			"unknown fields in the configuration: %s. Probably a typo, or the model %s has changed",
			unknown, model.Type.Name(),
		)
	}
	return nil
}

// validateCustomFieldNamesKnown checks that every field name claimed by a
// custom field saver exists on the model. Same typo-catching purpose,
// applied to the saver registry.
func validateCustomFieldNamesKnown(_ *Fields, model *ModelInfo, savers *CustomFieldSavers) error {
	unknown := difference(savers.FieldNames(), model.AttributeNames())
	if len(unknown) > 0 {
		return fmt.Errorf(
			"unknown fields in custom field savers: %s. Probably a typo in the saver's field list, or the model %s has changed",
			unknown, model.Type.Name(),
		)
	}
	return nil
}

// validateRelationshipsHandled checks that every relationship attribute is
// either handled by a custom field saver or explicitly excluded. Blindly
// accepting relationship data without custom logic is unsafe.
func validateRelationshipsHandled(f *Fields, model *ModelInfo, savers *CustomFieldSavers) error {
	handled := union(savers.FieldNames(), f.ExcludeOnCreate(), f.ExcludeOnUpdate())

	unhandled := difference(model.RelationNames(), handled)
	if len(unhandled) > 0 {
		return fmt.Errorf(
			"relationships not handled by any custom field saver: %s. Either register savers for them, or exclude them explicitly (RORelations)",
			unhandled,
		)
	}
	return nil
}

// validatePrimaryKeyNotWritable checks the primary key handling is
// consistent with the natural-key flag: a generated key must be excluded
// from both create() and update(), and a natural key must not be excluded
// from either.
func validatePrimaryKeyNotWritable(f *Fields, _ *ModelInfo, _ *CustomFieldSavers) error {
	pk := NewFieldSet(f.PrimaryKey...)

	if !f.NaturalPrimaryKey {
		// create() must not accept the primary key: users would be able to
		// book custom keys. update() may receive it for searching, but it
		// must never reach the fields that get saved.
		writableOnCreate := difference(pk, f.ExcludeOnCreate())
		writableOnUpdate := difference(pk, f.ExcludeOnUpdate())
		if len(writableOnCreate) > 0 || len(writableOnUpdate) > 0 {
			return fmt.Errorf(
				"primary key fields not excluded for create(): %s, for update(): %s. A user could choose any primary key they want; if that is intended, set NaturalPrimaryKey",
				writableOnCreate, writableOnUpdate,
			)
		}
		return nil
	}

	// Natural key: the requirement is the opposite, the key must be fully
	// writable, otherwise declaring it natural is pointless.
	excludedOnCreate := intersection(pk, f.ExcludeOnCreate())
	excludedOnUpdate := intersection(pk, f.ExcludeOnUpdate())
	if len(excludedOnCreate) > 0 || len(excludedOnUpdate) > 0 {
		return fmt.Errorf(
			"natural primary key fields are excluded for create(): %s, for update(): %s. NaturalPrimaryKey makes no sense when the key fields are excluded",
			excludedOnCreate, excludedOnUpdate,
		)
	}
	return nil
}
