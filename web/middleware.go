package web

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/kolypto/apiens/di"
)

// RequestToken resolves the current *http.Request from a request-scoped
// injector.
type RequestToken struct{}

// RequestContextToken resolves the current request's context.Context from a
// request-scoped injector.
type RequestContextToken struct{}

type contextKey struct{}

// Config holds the configuration for the injector middleware.
type Config struct {
	// ErrorHandler is called when preparing the request injector fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// CloseErrorHandler is called when closing the request injector fails.
	// If nil, errors are logged.
	CloseErrorHandler func(error)

	// Middlewares run against the fresh injector before the handler.
	// They can provide request-derived values: the authenticated user,
	// a database session, a locale.
	Middlewares []func(*di.Injector, *http.Request) error
}

// Option configures the injector middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for injector preparation failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithCloseErrorHandler sets the error handler for injector close failures.
func WithCloseErrorHandler(h func(error)) Option {
	return func(c *Config) {
		c.CloseErrorHandler = h
	}
}

// WithMiddleware adds a function that runs against the request injector
// before the handler. Multiple functions run in the order they were added.
func WithMiddleware(mw func(*di.Injector, *http.Request) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			RespondError(w, err)
		},
		CloseErrorHandler: func(err error) {
			log.Error().Err(err).Msg("request injector close failed")
		},
	}
}

// InjectorMiddleware creates a middleware that gives every request its own
// copy of the template injector. The template is built once at startup; the
// copy shares its providers but constructs fresh instances, so request
// handlers never see another request's state.
//
// The copy can resolve RequestToken and RequestContextToken, is available
// to handlers via InjectorFromContext, and is closed when the request
// completes. Close failures are reported, never dropped.
func InjectorMiddleware(template *di.Injector, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			injector := template.Copy()
			defer func() {
				if err := injector.Close(); err != nil {
					cfg.CloseErrorHandler(err)
				}
			}()

			r = r.WithContext(context.WithValue(r.Context(), contextKey{}, injector))

			if err := provideRequest(injector, r); err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}
			for _, mw := range cfg.Middlewares {
				if err := mw(injector, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func provideRequest(injector *di.Injector, r *http.Request) error {
	if err := injector.ProvideValue(RequestToken{}, r); err != nil {
		return err
	}
	return injector.ProvideValue(RequestContextToken{}, r.Context())
}

// InjectorFromContext returns the request-scoped injector, or nil when the
// request did not pass through InjectorMiddleware.
func InjectorFromContext(ctx context.Context) *di.Injector {
	injector, _ := ctx.Value(contextKey{}).(*di.Injector)
	return injector
}

// Handle wraps a handler that wants a service resolved from the request
// injector:
//
//	r.Get("/users/{id}", web.Handle(userServiceToken{},
//		func(users *UserService, w http.ResponseWriter, r *http.Request) {
//			// ...
//		}))
func Handle[T any](token di.Token, handler func(T, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		injector := InjectorFromContext(r.Context())
		if injector == nil {
			RespondError(w, errMissingInjector)
			return
		}

		service, err := di.Resolve[T](injector, token)
		if err != nil {
			RespondError(w, err)
			return
		}
		handler(service, w, r)
	}
}
