package web_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolypto/apiens/apierrors"
	"github.com/kolypto/apiens/di"
	"github.com/kolypto/apiens/web"
)

// tSession stands in for a per-request resource: something that must be
// constructed for every request and released afterwards.
type tSession struct {
	n      int
	closed bool
}

func (s *tSession) Close() error {
	s.closed = true
	return nil
}

type sessionToken struct{}

func TestInjectorMiddleware(t *testing.T) {
	t.Run("each request gets fresh instances", func(t *testing.T) {
		var constructed int
		template := di.New()
		require.NoError(t, template.Provide(sessionToken{}, di.NewResolvable(func() *tSession {
			constructed++
			return &tSession{n: constructed}
		})))

		r := chi.NewRouter()
		r.Use(web.InjectorMiddleware(template))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			session, err := di.Resolve[*tSession](web.InjectorFromContext(r.Context()), sessionToken{})
			require.NoError(t, err)
			_, _ = w.Write([]byte{byte('0' + session.n)})
		})

		first := httptest.NewRecorder()
		r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		second := httptest.NewRecorder()
		r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "1", first.Body.String())
		assert.Equal(t, "2", second.Body.String())
		assert.False(t, template.Closed(), "the template stays open")
	})

	t.Run("request and context are injectable", func(t *testing.T) {
		handler := web.InjectorMiddleware(di.New())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			injector := web.InjectorFromContext(r.Context())

			request, err := injector.Get(web.RequestToken{}, di.Default)
			require.NoError(t, err)
			assert.Same(t, r, request)

			_, err = injector.Get(web.RequestContextToken{}, di.Default)
			require.NoError(t, err)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})

	t.Run("the injector is closed after the request", func(t *testing.T) {
		var session *tSession
		template := di.New()
		require.NoError(t, template.Provide(sessionToken{}, di.NewResolvable(func() *tSession {
			session = &tSession{}
			return session
		})))

		handler := web.InjectorMiddleware(template)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := web.InjectorFromContext(r.Context()).Get(sessionToken{}, di.Default)
			require.NoError(t, err)
			assert.False(t, session.closed, "alive during the request")
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotNil(t, session)
		assert.True(t, session.closed, "released after the request")
	})

	t.Run("close failures reach the handler", func(t *testing.T) {
		closeErr := errors.New("session leak")
		template := di.New()
		require.NoError(t, template.Provide(sessionToken{}, di.NewResolvable(func() *failingCloser {
			return &failingCloser{err: closeErr}
		})))

		var reported error
		handler := web.InjectorMiddleware(template,
			web.WithCloseErrorHandler(func(err error) { reported = err }),
		)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := web.InjectorFromContext(r.Context()).Get(sessionToken{}, di.Default)
			require.NoError(t, err)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, reported, closeErr)
	})

	t.Run("custom middlewares provide request-derived values", func(t *testing.T) {
		type userToken struct{}

		handler := web.InjectorMiddleware(di.New(),
			web.WithMiddleware(func(injector *di.Injector, r *http.Request) error {
				return injector.ProvideValue(userToken{}, r.Header.Get("X-User"))
			}),
		)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := di.Resolve[string](web.InjectorFromContext(r.Context()), userToken{})
			require.NoError(t, err)
			_, _ = w.Write([]byte(user))
		}))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-User", "kolypto")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, "kolypto", recorder.Body.String())
	})

	t.Run("failing middleware short-circuits the request", func(t *testing.T) {
		handler := web.InjectorMiddleware(di.New(),
			web.WithMiddleware(func(injector *di.Injector, r *http.Request) error {
				return apierrors.E_AUTH_REQUIRED.New("sign in first", "")
			}),
		)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("the handler must not run")
		}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "E_AUTH_REQUIRED", decodeError(t, recorder).Name)
	})

	t.Run("no middleware, no injector", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, web.InjectorFromContext(request.Context()))
	})
}

type failingCloser struct{ err error }

func (f *failingCloser) Close() error { return f.err }

func TestHandle(t *testing.T) {
	type greeterToken struct{}

	t.Run("resolves the service from the request injector", func(t *testing.T) {
		template := di.New()
		require.NoError(t, template.ProvideValue(greeterToken{}, "hello"))

		r := chi.NewRouter()
		r.Use(web.InjectorMiddleware(template))
		r.Get("/", web.Handle(greeterToken{}, func(greeting string, w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(greeting))
		}))

		recorder := httptest.NewRecorder()
		r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "hello", recorder.Body.String())
	})

	t.Run("missing provider is a server failure", func(t *testing.T) {
		r := chi.NewRouter()
		r.Use(web.InjectorMiddleware(di.New()))
		r.Get("/", web.Handle(greeterToken{}, func(greeting string, w http.ResponseWriter, r *http.Request) {}))

		recorder := httptest.NewRecorder()
		r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Equal(t, "F_UNEXPECTED_ERROR", decodeError(t, recorder).Name)
	})

	t.Run("without the middleware it fails instead of panicking", func(t *testing.T) {
		handler := web.Handle(greeterToken{}, func(greeting string, w http.ResponseWriter, r *http.Request) {})

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}

func TestRespondError(t *testing.T) {
	t.Run("application error", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		web.RespondError(recorder, apierrors.E_NOT_FOUND.
			Format("Cannot find {object}", "", apierrors.Info{"object": "User"}).
			WithDebug("sql", "SELECT ..."))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

		obj := decodeError(t, recorder)
		assert.Equal(t, "E_NOT_FOUND", obj.Name)
		assert.Equal(t, "Cannot find User", obj.Error)
		assert.Nil(t, obj.Debug, "debug data never leaks by default")
	})

	t.Run("unknown errors are converted", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		web.RespondError(recorder, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		obj := decodeError(t, recorder)
		assert.Equal(t, "F_UNEXPECTED_ERROR", obj.Name)
		assert.Equal(t, "pq: connection refused", obj.Error)
	})

	t.Run("debug variant includes debug data", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		web.RespondErrorDebug(recorder, errors.New("boom"), true)

		obj := decodeError(t, recorder)
		assert.Equal(t, "boom", obj.Debug["unexpected_error"])
	})
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) apierrors.ErrorObject {
	t.Helper()
	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response.Error
}
