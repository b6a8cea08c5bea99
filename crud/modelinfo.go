package crud

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// ModelInfo enumerates a model struct's attributes for the configuration
// validators: which field names exist at all, and which of them are
// relationship attributes.
//
// An attribute is known both by its Go field name and by its `json`/`db`
// tag name, so the validators accept whichever naming convention the API
// layer uses. A field is considered a relationship when its type is a
// struct, a pointer to struct, or a slice of (pointers to) structs,
// excluding scalar struct types such as time.Time.
type ModelInfo struct {
	// Type is the model's struct type.
	Type reflect.Type

	attributes FieldSet
	relations  FieldSet
}

// NewModelInfo inspects a model struct (or pointer to one).
// Panics when the model is not a struct: that is a wiring error caught at
// configuration time, not a runtime condition.
func NewModelInfo(model any) *ModelInfo {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("crud: model must be a struct, got %T", model))
	}

	info := &ModelInfo{
		Type:       t,
		attributes: NewFieldSet(),
		relations:  NewFieldSet(),
	}
	info.collect(t)
	return info
}

func (m *ModelInfo) collect(t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		// Flatten embedded structs: their fields are the model's fields.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			m.collect(field.Type)
			continue
		}

		m.attributes[field.Name] = struct{}{}
		name := field.Name
		if tagName := attributeTagName(field); tagName != "" {
			m.attributes[tagName] = struct{}{}
			name = tagName
		}

		// Relations are tracked under the attribute's API name only: that
		// is the name savers and exclude lists refer to.
		if isRelation(field.Type) {
			m.relations[name] = struct{}{}
		}
	}
}

// AttributeNames returns every known attribute name.
func (m *ModelInfo) AttributeNames() FieldSet {
	return m.attributes
}

// RelationNames returns the names of relationship attributes.
func (m *ModelInfo) RelationNames() FieldSet {
	return m.relations
}

// HasAttribute reports whether the model knows this attribute name.
func (m *ModelInfo) HasAttribute(name string) bool {
	return m.attributes.Has(name)
}

func attributeTagName(field reflect.StructField) string {
	for _, tag := range []string{"json", "db"} {
		value, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(value, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}

var timeType = reflect.TypeOf(time.Time{})

func isRelation(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer:
		return isRelation(t.Elem())
	case reflect.Slice:
		return isRelation(t.Elem())
	case reflect.Struct:
		return t != timeType
	default:
		return false
	}
}
