package di

import (
	"reflect"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kolypto/apiens/exitstack"
)

// Injector is a node in a tree of lifetime scopes. It owns the providers
// registered on it, the instances it has constructed, and the disposable
// resources those instances represent.
//
// A token may have at most one provider per injector: overrides belong in a
// child injector. Once closed, an injector is permanently unusable.
type Injector struct {
	id     string
	parent *Injector

	mu        sync.Mutex
	providers map[Token]*Provider
	instances map[Token]any
	entered   *exitstack.NamedExitStack
	closed    bool
}

// New creates a root injector.
func New() *Injector {
	return newInjector(nil)
}

// Child creates an injector one level below this one. Lookups that miss on
// the child continue on this injector; instances created by the child are
// owned and released by the child alone.
func (in *Injector) Child() *Injector {
	return newInjector(in)
}

func newInjector(parent *Injector) *Injector {
	in := &Injector{
		id:        uuid.NewString(),
		parent:    parent,
		providers: make(map[Token]*Provider),
		instances: make(map[Token]any),
		entered:   exitstack.New(),
	}

	// Safety net: an injector collected while open means clean-up was
	// skipped somewhere. Not a guaranteed trigger; a debugging aid.
	runtime.SetFinalizer(in, (*Injector).finalize)

	return in
}

// ID returns the unique ID of this injector.
func (in *Injector) ID() string {
	return in.id
}

// Parent returns the parent injector, or nil for a root injector.
func (in *Injector) Parent() *Injector {
	return in.parent
}

// Closed reports whether Close() has been called.
func (in *Injector) Closed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.closed
}

// Provide registers how `token` is produced at this injector.
//
// The provider must carry dependency metadata: pass a *Resolvable, or a
// plain function previously registered with Describe. Anything else fails
// with ErrNotResolvable. Registering a token twice on the same injector
// fails immediately with AlreadyProvidedError.
func (in *Injector) Provide(token Token, provider any) error {
	resolvable, err := asResolvable(provider)
	if err != nil {
		return err
	}

	return in.RegisterProvider(NewProvider(token, resolvable))
}

// ProvideValue registers a precomputed value directly into the instance
// cache. It is visible immediately, bypasses the provider mechanism, and can
// still be shadowed by a provider in a child injector.
func (in *Injector) ProvideValue(token Token, value any) error {
	if err := in.RegisterProvider(NewProvider(token, NewResolvable(func() any { return value }))); err != nil {
		return err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return ClosedInjectorError{Operation: "register an instance"}
	}
	in.instances[token] = value
	return nil
}

// RegisterProvider registers a token-bound provider on this injector.
func (in *Injector) RegisterProvider(provider *Provider) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if _, dup := in.providers[provider.Token]; dup {
		return AlreadyProvidedError{Token: provider.Token}
	}

	in.providers[provider.Token] = provider
	return nil
}

// Get resolves a value for `token`, searching this injector and then its
// ancestors unless restricted by flags. A given token yields the same
// instance for the remainder of this injector's lifetime.
func (in *Injector) Get(token Token, flags InjectFlags) (any, error) {
	return in.get(token, flags, nil, false)
}

// GetDefault is Get with an explicit fallback: supplying a default
// implicitly makes the lookup Optional.
func (in *Injector) GetDefault(token Token, flags InjectFlags, def any) (any, error) {
	return in.get(token, flags, def, true)
}

func (in *Injector) get(token Token, flags InjectFlags, def any, hasDefault bool) (any, error) {
	// An explicit default makes the lookup optional. That's a shortcut.
	if hasDefault {
		flags |= Optional
	}

	// Skip this injector? Go to the parent, but only skip one level.
	if flags.Has(SkipSelf) {
		return in.delegate(token, flags&^SkipSelf, def, hasDefault)
	}

	in.mu.Lock()
	if instance, ok := in.instances[token]; ok {
		in.mu.Unlock()
		return instance, nil
	}
	provider, ok := in.providers[token]
	closed := in.closed
	in.mu.Unlock()

	if ok {
		return in.createInstance(provider, closed)
	}

	// Self prevents us from going upwards: fail (or default) immediately.
	if flags.Has(Self) {
		return terminalGet(token, flags&^Self, def)
	}

	return in.delegate(token, flags, def, hasDefault)
}

// delegate continues a lookup on the parent injector, or terminates it at
// the root of the tree.
func (in *Injector) delegate(token Token, flags InjectFlags, def any, hasDefault bool) (any, error) {
	if in.parent == nil {
		return terminalGet(token, flags, def)
	}
	return in.parent.get(token, flags, def, hasDefault)
}

// terminalGet is the catch-all at the top of the injector tree: there is no
// other place to look, so either the default applies or the lookup fails.
func terminalGet(token Token, flags InjectFlags, def any) (any, error) {
	if flags.Has(Optional) {
		return def, nil
	}
	return nil, NoProviderError{Token: token}
}

// createInstance invokes a provider, memoizes the result under its token,
// and records it for clean-up when it is a Disposable.
func (in *Injector) createInstance(provider *Provider, closed bool) (any, error) {
	if closed {
		return nil, ClosedInjectorError{Operation: "create an instance"}
	}

	value, err := in.ResolveAndInvoke(provider.Resolvable)
	if err != nil {
		return nil, err
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	// A concurrent resolution may have won the race; keep the first
	// instance so the memoization guarantee holds.
	if instance, ok := in.instances[provider.Token]; ok {
		return instance, nil
	}
	if in.closed {
		return nil, ClosedInjectorError{Operation: "register an instance"}
	}

	in.instances[provider.Token] = value
	if disposable, ok := value.(Disposable); ok {
		in.entered.Enter(formatToken(provider.Token), disposable.Close)
	}
	return value, nil
}

// Has reports whether a provider for `token` can be found, honoring the
// same Self/SkipSelf restrictions as Get, without side effects.
func (in *Injector) Has(token Token, flags InjectFlags) bool {
	provider, _ := in.ProviderFor(token, flags|Optional)
	return provider != nil
}

// ProviderFor finds the provider a lookup with these flags would use.
// Without the Optional flag, a missing provider is an error.
func (in *Injector) ProviderFor(token Token, flags InjectFlags) (*Provider, error) {
	if flags.Has(SkipSelf) {
		return in.delegateProviderFor(token, flags&^SkipSelf)
	}

	in.mu.Lock()
	provider, ok := in.providers[token]
	in.mu.Unlock()

	if ok {
		return provider, nil
	}
	if flags.Has(Self) {
		return terminalProviderFor(token, flags&^Self)
	}
	return in.delegateProviderFor(token, flags)
}

func (in *Injector) delegateProviderFor(token Token, flags InjectFlags) (*Provider, error) {
	if in.parent == nil {
		return terminalProviderFor(token, flags)
	}
	return in.parent.ProviderFor(token, flags)
}

func terminalProviderFor(token Token, flags InjectFlags) (*Provider, error) {
	if flags.Has(Optional) {
		return nil, nil
	}
	return nil, NoProviderError{Token: token}
}

// Invoke resolves fn's declared dependencies at this injector and calls it.
// fn must be a *Resolvable or a function registered with Describe.
func (in *Injector) Invoke(fn any, args ...any) (any, error) {
	resolvable, err := asResolvable(fn)
	if err != nil {
		return nil, err
	}
	return in.resolveAndInvoke(resolvable, nil, args)
}

// InvokeKwargs is Invoke with explicit overrides: a named dependency whose
// name appears in kwargs is taken from there instead of being resolved.
// Explicit values always win over injected ones.
func (in *Injector) InvokeKwargs(fn any, kwargs map[string]any, args ...any) (any, error) {
	resolvable, err := asResolvable(fn)
	if err != nil {
		return nil, err
	}
	return in.resolveAndInvoke(resolvable, kwargs, args)
}

// Partial returns a zero-dependency callable equivalent to
// Invoke(fn, args...), suitable for passing as an ordinary callback.
func (in *Injector) Partial(fn any, args ...any) func() (any, error) {
	return func() (any, error) {
		return in.Invoke(fn, args...)
	}
}

// ResolveAndInvoke resolves every dependency of a resolvable at this
// injector and calls its function.
func (in *Injector) ResolveAndInvoke(resolvable *Resolvable, args ...any) (any, error) {
	return in.resolveAndInvoke(resolvable, nil, args)
}

func (in *Injector) resolveAndInvoke(resolvable *Resolvable, kwargs map[string]any, args []any) (any, error) {
	// Quiet dependencies: resolved in declaration order, values discarded.
	for _, dep := range resolvable.DepsNopass {
		if _, err := in.get(dep.Token, dep.Flags, dep.def, dep.hasDefault); err != nil {
			return nil, err
		}
	}

	deps := make([]any, 0, len(resolvable.DepsKw))
	for _, named := range resolvable.DepsKw {
		if value, ok := kwargs[named.Name]; ok {
			deps = append(deps, value)
			continue
		}

		value, err := in.get(named.Token, named.Flags, named.def, named.hasDefault)
		if err != nil {
			return nil, err
		}
		deps = append(deps, value)
	}

	return resolvable.call(args, deps)
}

// Close releases every disposable resource constructed by this injector in
// reverse-acquisition order, forgets all instances, and marks the injector
// permanently closed. Close is best-effort: a failing clean-up does not stop
// the rest, and every failure is reported in the returned aggregate error.
// Closing an already-closed injector is a no-op.
func (in *Injector) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return nil
	}
	in.closed = true
	in.instances = make(map[Token]any)
	runtime.SetFinalizer(in, nil)

	return in.entered.Close()
}

// Copy creates a fresh injector with the same parent and the same provider
// bindings, but no memoized instances, no entered resources, and an open
// state. Use it to turn a template injector into one injector per unit of
// work.
func (in *Injector) Copy() *Injector {
	in.mu.Lock()
	defer in.mu.Unlock()

	fresh := newInjector(in.parent)
	for token, provider := range in.providers {
		fresh.providers[token] = provider
	}
	return fresh
}

func (in *Injector) finalize() {
	in.mu.Lock()
	closed := in.closed
	in.mu.Unlock()

	if !closed {
		log.Warn().
			Str("injector", in.id).
			Msg("injector was never closed; providers could not clean up and resources may be dangling")
	}
}

// Resolve fetches a token from the injector and asserts its type.
//
//	session, err := di.Resolve[*Session](request, sessionToken)
func Resolve[T any](in *Injector, token Token, flags ...InjectFlags) (T, error) {
	var combined InjectFlags
	for _, f := range flags {
		combined |= f
	}

	value, err := in.Get(token, combined)
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, TypeMismatchError{
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
			Actual:   reflect.TypeOf(value),
		}
	}
	return typed, nil
}
