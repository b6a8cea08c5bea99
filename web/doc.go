// Package web wires the injector into net/http request handling.
//
// An application builds one template injector at startup and lets the
// middleware stamp out a per-request copy: every request gets fresh
// instances, and whatever resources those instances hold are released when
// the request completes.
//
//	root := di.New()
//	// ... root.Provide(...) application-wide services
//
//	template := root.Child()
//	// ... template.Provide(...) request-scoped services
//
//	r := chi.NewRouter()
//	r.Use(web.InjectorMiddleware(template))
//	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
//		in := web.InjectorFromContext(r.Context())
//		// ... in.Get(...)
//	})
package web
