package di

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors. These are wrapped by the typed errors below; match them
// with errors.Is.
var (
	// ErrNoProvider means no provider was found for a token anywhere in the
	// injector chain the lookup was allowed to search.
	ErrNoProvider = errors.New("no provider found")

	// ErrClosedInjector means an operation was attempted on an injector
	// that has already been closed.
	ErrClosedInjector = errors.New("injector has been closed")

	// ErrNotResolvable means a plain function without dependency metadata
	// was passed where a described function or a Resolvable was required.
	ErrNotResolvable = errors.New("function carries no dependency metadata")
)

var (
	_ error = NoProviderError{}
	_ error = ClosedInjectorError{}
	_ error = AlreadyProvidedError{}
	_ error = InvokeError{}
	_ error = TypeMismatchError{}
)

// NoProviderError reports the token that could not be resolved.
type NoProviderError struct {
	Token Token
}

func (e NoProviderError) Error() string {
	return fmt.Sprintf("no provider found for token %s", formatToken(e.Token))
}

func (e NoProviderError) Unwrap() error {
	return ErrNoProvider
}

// ClosedInjectorError reports an operation attempted after Close().
// Clean-up procedures have already taken place at that point; create a new
// injector, or Copy() one to obtain an identical open injector.
type ClosedInjectorError struct {
	Operation string
}

func (e ClosedInjectorError) Error() string {
	return fmt.Sprintf("cannot %s on a closed injector", e.Operation)
}

func (e ClosedInjectorError) Unwrap() error {
	return ErrClosedInjector
}

// AlreadyProvidedError reports a second registration for the same token on
// the same injector. Provider overrides are not allowed: if you want an
// override, create a child injector and provide it there.
type AlreadyProvidedError struct {
	Token Token
}

func (e AlreadyProvidedError) Error() string {
	return fmt.Sprintf("provider for token %s already registered (overrides belong in a child injector)", formatToken(e.Token))
}

// InvokeError wraps a failure to invoke a provider or consumer function.
type InvokeError struct {
	Func  any
	Cause error
}

func (e InvokeError) Error() string {
	return fmt.Sprintf("failed to invoke %T: %v", e.Func, e.Cause)
}

func (e InvokeError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError reports a value whose dynamic type does not match what
// the caller asked for.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", formatReflectType(e.Expected), formatReflectType(e.Actual))
}

// formatToken formats an injection token for error messages.
func formatToken(token Token) string {
	switch t := token.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", t)
	case reflect.Type:
		return formatReflectType(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v (%T)", token, token)
	}
}

func formatReflectType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
	}
	return t.String()
}
