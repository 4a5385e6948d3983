package keyword

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/naming"
)

// Func is the signature of every keyword implementation. The state is the
// mutable context/session vector of the library instance the keyword is
// bound to; free keywords (like the remote server's control keywords)
// receive the state of the library that declared them.
type Func func(ctx context.Context, st *State, args []any, kwargs map[string]any) (any, error)

// Option wraps a keyword function with a cross-cutting transformation
// (argument coercion, validation, retries). Options are registered once per
// template under a name and composed through a Chain.
type Option func(Func) Func

// Record is one declared keyword: canonical key, composed function,
// documentation and argument spec. Immutable once built by a Chain.
type Record struct {
	Key  string
	Doc  string
	Args []domain.ArgSpec
	// Variadic keywords accept surplus positional and named arguments
	// beyond the declared spec (generated session openers forward them to
	// the handler).
	Variadic bool
	Func     Func
}

// Name returns the public keyword name.
func (r *Record) Name() string { return naming.Decode(r.Key) }

// ShortDoc returns the first line of the keyword documentation.
func (r *Record) ShortDoc() string {
	doc, _, _ := strings.Cut(strings.TrimSpace(r.Doc), "\n")
	return doc
}

// Bind attaches the record to a library instance's state, producing a
// callable handle. Each instance binds its own handles; handles are never
// shared across instances.
func (r *Record) Bind(st *State) *Handle {
	return &Handle{record: r, state: st}
}

// checkArgs validates the positional and named arguments against the
// declared argument specs.
func (r *Record) checkArgs(args []any, kwargs map[string]any) error {
	required := 0
	for _, spec := range r.Args {
		if !spec.HasDefault {
			required++
		}
	}
	if len(args) < required {
		return fmt.Errorf("keyword %q expected at least %d arguments, got %d",
			r.Name(), required, len(args))
	}
	if r.Variadic {
		return nil
	}
	if len(args) > len(r.Args) {
		return fmt.Errorf("keyword %q expected at most %d arguments, got %d",
			r.Name(), len(r.Args), len(args))
	}
	for name := range kwargs {
		if !r.hasArg(name) {
			return fmt.Errorf("keyword %q got an unexpected named argument %q",
				r.Name(), name)
		}
	}
	return nil
}

func (r *Record) hasArg(name string) bool {
	for _, spec := range r.Args {
		if spec.Name == name {
			return true
		}
	}
	return false
}
