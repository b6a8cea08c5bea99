package di

import (
	"fmt"
	"reflect"
)

// Token identifies what a provider can provide. It can be any comparable
// value: a dedicated key type, a string name, or a reflect.Type.
type Token any

// Dependency is a request for a token, carrying resolution flags and an
// optional default value. It is an immutable value object.
type Dependency struct {
	Token Token
	Flags InjectFlags

	def        any
	hasDefault bool
}

// Dep declares a dependency on `token` with Default flags.
func Dep(token Token) Dependency {
	return Dependency{Token: token}
}

// WithFlags returns a copy of the dependency with the given lookup flags.
func (d Dependency) WithFlags(flags InjectFlags) Dependency {
	d.Flags = flags
	return d
}

// Optional returns a copy of the dependency that resolves to `def` when no
// provider is found, instead of failing.
func (d Dependency) Optional(def any) Dependency {
	d.Flags |= Optional
	d.def = def
	d.hasDefault = true
	return d
}

// NamedDependency is a dependency bound to a parameter name. The name is
// used to let callers override the injected value, and dependencies are
// passed to the function in declaration order.
type NamedDependency struct {
	Name string
	Dependency
}

// Resolvable is a function bundled with its dependency information.
// Once the dependencies are resolved, the function is called with them as
// its trailing arguments, after any caller-supplied leading arguments.
type Resolvable struct {
	fn     reflect.Value
	fnType reflect.Type

	// DepsKw are dependencies passed to the function as arguments,
	// in declaration order, after any caller-supplied arguments.
	DepsKw []NamedDependency

	// DepsNopass are dependencies resolved for their side effects only and
	// not passed to the function.
	DepsNopass []Dependency
}

// NewResolvable wraps a function so dependencies can be attached to it.
// Panics if fn is not a function: that is a programming error caught at
// registration time, not at resolution time.
func NewResolvable(fn any) *Resolvable {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		panic(fmt.Sprintf("di: NewResolvable expects a function, got %T", fn))
	}

	return &Resolvable{fn: v, fnType: v.Type()}
}

// Kwarg declares a named dependency passed to the function as its next
// trailing argument. Returns the resolvable for chaining.
func (r *Resolvable) Kwarg(name string, dep Dependency) *Resolvable {
	for i, existing := range r.DepsKw {
		if existing.Name == name {
			r.DepsKw[i].Dependency = dep
			return r
		}
	}

	r.DepsKw = append(r.DepsKw, NamedDependency{Name: name, Dependency: dep})
	return r
}

// Depends declares dependencies resolved for side effect only: they are
// constructed before the function runs but are not passed to it.
func (r *Resolvable) Depends(deps ...Dependency) *Resolvable {
	r.DepsNopass = append(r.DepsNopass, deps...)
	return r
}

// Merge unions another resolvable's dependencies into this one. Named
// dependencies from `other` win on name clashes. This helps when the same
// function is described more than once.
func (r *Resolvable) Merge(other *Resolvable) *Resolvable {
	for _, nd := range other.DepsKw {
		r.Kwarg(nd.Name, nd.Dependency)
	}
	r.DepsNopass = append(r.DepsNopass, other.DepsNopass...)
	return r
}

// Func returns the wrapped function.
func (r *Resolvable) Func() any {
	return r.fn.Interface()
}

// call invokes the function with the caller-supplied leading arguments
// followed by the resolved dependencies, and normalizes the return values:
// the first non-error result becomes the value, a trailing error result
// becomes the error.
func (r *Resolvable) call(args []any, deps []any) (result any, err error) {
	total := len(args) + len(deps)
	if !r.fnType.IsVariadic() && r.fnType.NumIn() != total {
		return nil, InvokeError{
			Func:  r.Func(),
			Cause: fmt.Errorf("want %d arguments (%d given + %d injected), function takes %d", total, len(args), len(deps), r.fnType.NumIn()),
		}
	}

	in := make([]reflect.Value, 0, total)
	for i, arg := range append(append([]any{}, args...), deps...) {
		v, convErr := argValue(r.fnType, i, arg)
		if convErr != nil {
			return nil, InvokeError{Func: r.Func(), Cause: convErr}
		}
		in = append(in, v)
	}

	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = InvokeError{Func: r.Func(), Cause: fmt.Errorf("panic: %v", p)}
		}
	}()

	out := r.fn.Call(in)
	return normalizeResults(out)
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// argValue converts the i-th argument into a reflect.Value suitable for the
// function's i-th parameter.
func argValue(fnType reflect.Type, i int, arg any) (reflect.Value, error) {
	var paramType reflect.Type
	if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
		paramType = fnType.In(fnType.NumIn() - 1).Elem()
	} else {
		paramType = fnType.In(i)
	}

	if arg == nil {
		return reflect.Zero(paramType), nil
	}

	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(paramType) {
		return reflect.Value{}, TypeMismatchError{Expected: paramType, Actual: v.Type()}
	}
	return v, nil
}

// normalizeResults maps a function's return values onto (value, error).
func normalizeResults(out []reflect.Value) (any, error) {
	var result any
	var err error

	for _, o := range out {
		if o.Type().Implements(errType) {
			if !o.IsNil() {
				err = o.Interface().(error)
			}
			continue
		}
		if result == nil {
			result = o.Interface()
		}
	}
	return result, err
}

// Provider is a Resolvable bound to a specific injection token: when the
// token is requested, the function is called with its resolved dependencies
// and the result becomes the token's instance.
type Provider struct {
	Token Token
	*Resolvable
}

// NewProvider binds a resolvable to a token.
func NewProvider(token Token, resolvable *Resolvable) *Provider {
	return &Provider{Token: token, Resolvable: resolvable}
}
