package di

import (
	"reflect"
	"sync"
)

// The side table associates dependency metadata with plain functions, so a
// function described once can later be passed directly to Provide or Invoke.
// It is the moral equivalent of attaching metadata to the function object
// itself, without reflection over the function's source.
var (
	markersMu sync.RWMutex
	markers   = make(map[uintptr]*Resolvable)
)

// Describe registers dependency metadata for a plain function and returns
// the Resolvable builder to attach dependencies to:
//
//	di.Describe(newSession).Kwarg("conn", di.Dep(connToken))
//
// Describing the same function again returns the existing Resolvable, so
// repeated descriptions merge rather than replace.
func Describe(fn any) *Resolvable {
	key := funcKey(fn)

	markersMu.Lock()
	defer markersMu.Unlock()

	if r, ok := markers[key]; ok {
		return r
	}

	r := NewResolvable(fn)
	markers[key] = r
	return r
}

// ResolvableOf returns the metadata previously attached to fn with Describe.
func ResolvableOf(fn any) (*Resolvable, bool) {
	markersMu.RLock()
	defer markersMu.RUnlock()

	r, ok := markers[funcKey(fn)]
	return r, ok
}

// IsResolvable reports whether fn carries dependency metadata: either it is
// a *Resolvable already, or it has been registered with Describe.
func IsResolvable(fn any) bool {
	if _, ok := fn.(*Resolvable); ok {
		return true
	}
	_, ok := ResolvableOf(fn)
	return ok
}

// asResolvable extracts dependency metadata from fn: a *Resolvable is used
// as-is, a described plain function is looked up in the side table, and
// anything else is a usage error.
func asResolvable(fn any) (*Resolvable, error) {
	if r, ok := fn.(*Resolvable); ok {
		return r, nil
	}
	if r, ok := ResolvableOf(fn); ok {
		return r, nil
	}
	return nil, InvokeError{Func: fn, Cause: ErrNotResolvable}
}

func funcKey(fn any) uintptr {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		panic("di: dependency metadata can only be attached to functions")
	}
	return v.Pointer()
}
