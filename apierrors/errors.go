package apierrors

import (
	"fmt"
	"strings"
)

// Info is structured context data attached to an error. It travels with the
// error to the API user, so put nothing sensitive here; sensitive context
// goes into Debug.
type Info map[string]any

// Error is an application error: an expected API behavior that is reported
// to the end user as a structured object rather than a bare message.
type Error struct {
	// Name is the unique machine-readable error name, e.g. "E_NOT_FOUND".
	// The UI uses it to tell one error from another and handle it.
	Name string

	// HTTPCode is the HTTP status this error maps to.
	HTTPCode int

	// Title is the generic title of the error kind.
	Title string

	// Message is the negative message: what has gone wrong.
	Message string

	// FixIt is the positive message: what the user can do to fix it.
	FixIt string

	// Info is raw structured context for the error.
	Info Info

	// Debug is server-only context. It is never serialized to the client
	// object unless explicitly asked for; keep it out of production responses.
	Debug Info

	cause error
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any. Set by Convert and WithCause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors by kind name, so catalog kinds work as errors.Is targets:
//
//	errors.Is(err, apierrors.E_NOT_FOUND.New("gone", ""))
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Name == e.Name
}

// WithInfo attaches structured context. Returns the error for chaining.
func (e *Error) WithInfo(key string, value any) *Error {
	if e.Info == nil {
		e.Info = Info{}
	}
	e.Info[key] = value
	return e
}

// WithDebug attaches server-only context. Returns the error for chaining.
func (e *Error) WithDebug(key string, value any) *Error {
	if e.Debug == nil {
		e.Debug = Info{}
	}
	e.Debug[key] = value
	return e
}

// WithCause records the underlying error for Unwrap.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

// Kind is a catalog entry: it binds an error name to its HTTP code and
// title, and constructs Error values.
type Kind struct {
	Name     string
	HTTPCode int
	Title    string
}

// New creates an error of this kind. fixit may be empty.
func (k Kind) New(message, fixit string) *Error {
	return &Error{
		Name:     k.Name,
		HTTPCode: k.HTTPCode,
		Title:    k.Title,
		Message:  message,
		FixIt:    fixit,
	}
}

// Format creates an error of this kind, interpolating {placeholder} names
// from info into both messages and recording info on the error:
//
//	E_NOT_FOUND.Format("Cannot find {object}", "", apierrors.Info{"object": "User"})
func (k Kind) Format(message, fixit string, info Info) *Error {
	err := k.New(interpolate(message, info), interpolate(fixit, info))
	err.Info = info
	return err
}

// Errorf creates an error of this kind with a fmt-style message and no
// fixit suggestion.
func (k Kind) Errorf(format string, args ...any) *Error {
	return k.New(fmt.Sprintf(format, args...), "")
}

func interpolate(s string, info Info) string {
	if s == "" || len(info) == 0 {
		return s
	}
	pairs := make([]string, 0, len(info)*2)
	for key, value := range info {
		pairs = append(pairs, "{"+key+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
