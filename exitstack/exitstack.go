// Package exitstack provides a LIFO stack of named clean-up functions.
//
// The standard pattern of deferring Close() calls loses errors: when several
// clean-ups fail, only one error surfaces and the rest go unreported. That is
// unacceptable when the clean-ups release real resources (database sessions,
// file handles, network listeners) whose failures you want in your logs.
//
// NamedExitStack keeps every clean-up addressable by name, releases them in
// strict reverse-acquisition order, and never drops a failure: Close()
// aggregates every error, and CloseAndLog() additionally reports each one
// through a structured logger.
//
// Example:
//
//	stack := exitstack.New()
//	stack.Enter("db", db.Close)
//	stack.Enter("redis", redis.Close)
//	defer func() {
//	    for _, err := range stack.CloseAndLog(logger) {
//	        // every failure is returned; none is lost
//	    }
//	}()
package exitstack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// CloseFunc releases one resource.
type CloseFunc func() error

// entry is a single named clean-up on the stack.
type entry struct {
	name  string
	close CloseFunc
}

// NamedExitStack is a LIFO stack of named clean-up functions.
//
// NamedExitStack is not safe for concurrent use; its owner is expected to
// guard it the same way it guards the resources it releases.
type NamedExitStack struct {
	stack []entry
}

// New creates an empty NamedExitStack.
func New() *NamedExitStack {
	return &NamedExitStack{}
}

// Enter pushes a clean-up onto the stack under `name`.
// It will be invoked by Close() after every clean-up entered later.
func (s *NamedExitStack) Enter(name string, close CloseFunc) {
	s.stack = append(s.stack, entry{name: name, close: close})
}

// Has reports whether a clean-up with this name has been entered and is still open.
func (s *NamedExitStack) Has(name string) bool {
	for _, e := range s.stack {
		if e.name == name {
			return true
		}
	}
	return false
}

// Len returns the number of clean-ups still open.
func (s *NamedExitStack) Len() int {
	return len(s.stack)
}

// ProperlyClosed reports whether there are no remaining clean-ups to run.
func (s *NamedExitStack) ProperlyClosed() bool {
	return len(s.stack) == 0
}

// ExitContext runs and removes the clean-up registered under `name`.
// If no such clean-up exists, nothing happens and nil is returned:
// this allows callers to exit contexts without checking whether they were entered.
func (s *NamedExitStack) ExitContext(name string) error {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].name != name {
			continue
		}
		e := s.stack[i]
		s.stack = append(s.stack[:i], s.stack[i+1:]...)
		return e.close()
	}
	return nil
}

// Close runs every remaining clean-up in reverse-acquisition order.
// A failing clean-up does not stop the rest: every error is collected and
// returned as a single aggregate via errors.Join.
func (s *NamedExitStack) Close() error {
	var errs []error
	for i := len(s.stack) - 1; i >= 0; i-- {
		e := s.stack[i]
		if err := e.close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.name, err))
		}
	}
	s.stack = nil

	return errors.Join(errs...)
}

// CloseAndLog runs every remaining clean-up in reverse-acquisition order,
// logging each failure through `logger` and returning all of them.
// Use this on emergency shutdown paths where errors must be visible but
// must not interrupt the remaining clean-ups.
func (s *NamedExitStack) CloseAndLog(logger zerolog.Logger) []error {
	var errs []error
	for i := len(s.stack) - 1; i >= 0; i-- {
		e := s.stack[i]
		if err := e.close(); err != nil {
			logger.Error().Err(err).Str("context", e.name).Msg("clean-up failed")
			errs = append(errs, err)
		}
	}
	s.stack = nil
	return errs
}

// Names returns the names of the remaining clean-ups, oldest first.
func (s *NamedExitStack) Names() []string {
	names := make([]string, len(s.stack))
	for i, e := range s.stack {
		names[i] = e.name
	}
	return names
}

// String describes the stack for diagnostics.
func (s *NamedExitStack) String() string {
	return fmt.Sprintf("NamedExitStack(%s)", strings.Join(s.Names(), ", "))
}
