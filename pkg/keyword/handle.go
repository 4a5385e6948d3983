package keyword

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
)

// Handle is a Record bound to one library instance. It adds the invocation
// paths: the regular dynamic-API call, and the debug paths that accept a
// single text argument in positional or pipe-delimited-cell form.
type Handle struct {
	record *Record
	state  *State
}

// Name returns the public keyword name.
func (h *Handle) Name() string { return h.record.Name() }

// Key returns the canonical keyword key.
func (h *Handle) Key() string { return h.record.Key }

// Doc returns the keyword documentation string.
func (h *Handle) Doc() string { return h.record.Doc }

// Args returns the ordered argument spec.
func (h *Handle) Args() []domain.ArgSpec {
	out := make([]domain.ArgSpec, len(h.record.Args))
	copy(out, h.record.Args)
	return out
}

// Variadic reports whether the keyword accepts surplus arguments beyond
// the declared spec.
func (h *Handle) Variadic() bool { return h.record.Variadic }

// State returns the instance state the handle is bound to.
func (h *Handle) State() *State { return h.state }

// Invoke validates the arguments against the declared specs and calls the composed
// keyword function. Failures of the function propagate unchanged.
func (h *Handle) Invoke(ctx context.Context, args []any, kwargs map[string]any) (any, error) {
	if err := h.record.checkArgs(args, kwargs); err != nil {
		return nil, err
	}
	return h.record.Func(ctx, h.state, args, kwargs)
}

// Debug parses a single text argument into positional string tokens
// (pipe-delimited cells or whitespace words) and invokes the keyword.
func (h *Handle) Debug(ctx context.Context, argsText string) (any, error) {
	return h.Invoke(ctx, anyArgs(SplitDebugArgs(argsText)), nil)
}

// Cell splits a multi-line text block into one positional argument per line
// and invokes the keyword.
func (h *Handle) Cell(ctx context.Context, text string) (any, error) {
	return h.Invoke(ctx, anyArgs(SplitCellArgs(text)), nil)
}

// Repr returns the string form published for remote introspection,
// e.g. "GreetUser [ name | greeting=Hello ]".
func (h *Handle) Repr() string {
	if len(h.record.Args) == 0 {
		return h.Name()
	}
	parts := make([]string, 0, len(h.record.Args))
	for _, spec := range h.record.Args {
		if spec.HasDefault {
			parts = append(parts, fmt.Sprintf("%s=%v", spec.Name, spec.Default))
		} else {
			parts = append(parts, spec.Name)
		}
	}
	return fmt.Sprintf("%s [ %s ]", h.Name(), strings.Join(parts, " | "))
}

func anyArgs(tokens []string) []any {
	args := make([]any, len(tokens))
	for i, tok := range tokens {
		args[i] = tok
	}
	return args
}
