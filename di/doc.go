// Package di provides a hierarchical dependency injector.
//
// An Injector keeps track of what your code might need and initializes it on
// demand. Values are identified by injection tokens, produced by registered
// providers, memoized per injector, and released when the injector closes.
//
// # Basic usage
//
// Register providers on a root injector, then fetch values by token:
//
//	root := di.New()
//	root.Provide(appToken, di.NewResolvable(func() *Application {
//	    return &Application{Title: "App"}
//	}))
//
//	app, err := di.Resolve[*Application](root, appToken)
//
// # Hierarchy
//
// Injectors form a tree. A request for a token walks from the current
// injector towards the root, and every injector memoizes the instances it
// created itself:
//
//	request := root.Child()
//	request.ProvideValue(userToken, currentUser)
//	defer request.Close()
//
// Lookups can be restricted with flags: di.Self searches only the current
// injector, di.SkipSelf starts at the parent, and di.Optional substitutes a
// default value instead of failing.
//
// # Dependencies
//
// A provider can itself depend on other tokens. Dependencies are declared
// explicitly on a Resolvable and are passed to the function as trailing
// arguments when it is invoked:
//
//	root.Provide(sessionToken, di.NewResolvable(newSession).
//	    Kwarg("conn", di.Dep(connToken)))
//
//	func newSession(conn *Connection) *Session { ... }
//
// Plain functions can be described once, process-wide, with di.Describe;
// afterwards they may be passed directly to Provide and Invoke. A function
// that was never described is a usage error, not a zero-dependency function.
//
// # Resources
//
// When a provider constructs a value implementing Disposable, the injector
// records it and releases it on Close() in reverse-acquisition order. Close
// is best-effort: a failing clean-up never hides the failures of the others.
//
// # Per-request injectors
//
// Copy() produces a fresh injector with the same providers but no memoized
// instances. Build a template injector once at start-up, then Copy() it for
// every unit of work:
//
//	request := template.Copy()
//	defer request.Close()
//
// A single Injector is meant for one unit of work at a time; instance
// creation is guarded internally, but the intended concurrency model is one
// injector per goroutine of work, not one injector shared by many.
package di
