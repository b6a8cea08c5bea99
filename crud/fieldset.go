package crud

import (
	"sort"
	"strings"
)

// FieldSet is a set of field names.
type FieldSet map[string]struct{}

// NewFieldSet builds a set from field names.
func NewFieldSet(names ...string) FieldSet {
	s := make(FieldSet, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// Has reports whether the set contains `name`.
func (s FieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// List returns the field names in sorted order.
func (s FieldSet) List() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String formats the set for error messages.
func (s FieldSet) String() string {
	return "{" + strings.Join(s.List(), ", ") + "}"
}

// union returns a new set with every name from both sets.
func union(sets ...FieldSet) FieldSet {
	out := make(FieldSet)
	for _, s := range sets {
		for name := range s {
			out[name] = struct{}{}
		}
	}
	return out
}

// difference returns the names of `s` that are not in `other`.
func difference(s, other FieldSet) FieldSet {
	out := make(FieldSet)
	for name := range s {
		if !other.Has(name) {
			out[name] = struct{}{}
		}
	}
	return out
}

// intersection returns the names present in both sets.
func intersection(s, other FieldSet) FieldSet {
	out := make(FieldSet)
	for name := range s {
		if other.Has(name) {
			out[name] = struct{}{}
		}
	}
	return out
}
