package domain

import "errors"

// ErrKeywordNotFound is returned when a keyword name cannot be resolved,
// neither in its canonical nor in its public form.
var ErrKeywordNotFound = errors.New("keyword not found")

// ErrDuplicateKeyword is returned by a non-overwriting table insert
// that collides with an existing keyword key.
var ErrDuplicateKeyword = errors.New("duplicate keyword")

// ErrInvalidOption is returned when a keyword option name is used
// that was never registered on the library template.
var ErrInvalidOption = errors.New("invalid keyword option")

// ErrNotInitialized is returned when the dynamic library surface is used
// on an instance whose constructor has not run.
var ErrNotInitialized = errors.New("library instance not initialized")

// ErrNoContextHandler is returned when a context handler type is looked up
// that was not declared on the template. This is a configuration bug.
var ErrNoContextHandler = errors.New("context handler not declared")

// ErrUnknownContext is returned when switching a context handler
// to a value it does not declare.
var ErrUnknownContext = errors.New("unknown context")

// ErrSessionNotFound is returned when switching to or closing
// a named session that is not open.
var ErrSessionNotFound = errors.New("session not found")

// ErrDuplicateSession is returned when opening a named session
// whose name is already taken.
var ErrDuplicateSession = errors.New("duplicate session")

// ErrNoActiveSession is returned when an operation needs the currently
// active session and none is set.
var ErrNoActiveSession = errors.New("no active session")

// ErrImportNotAllowed is returned by the remote bridge's import gate
// for library names missing from the allow-list.
var ErrImportNotAllowed = errors.New("library import not allowed")

// ErrNoSessionHandler is returned when a session handler type is looked up
// that was not declared on the template. This is a configuration bug.
var ErrNoSessionHandler = errors.New("session handler not declared")

// ErrDuplicateOption is returned when a keyword option name is registered
// twice on the same template.
var ErrDuplicateOption = errors.New("duplicate keyword option")

// ErrDuplicateHandler is returned when a context or session handler type
// is declared twice on the same template.
var ErrDuplicateHandler = errors.New("duplicate handler declaration")
