package remote

import (
	"context"
	"fmt"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
)

// RemoteFunctionNames returns the direct function export table: in
// registration mode every keyword name plus its three auxiliary endpoints,
// and in introspection mode the system.* enumeration functions. The order
// follows the keyword name order.
func (b *Bridge) RemoteFunctionNames() []string {
	var names []string
	if b.registerKeywords {
		for _, kw := range b.GetKeywordNames() {
			names = append(names, kw, kw+SuffixRepr, kw+SuffixDoc, kw+SuffixNonzero)
		}
	}
	if b.introspection {
		names = append(names, FuncListMethods, FuncMethodHelp)
	}
	return names
}

// CallFunction dispatches a direct function export call. The base name
// invokes the keyword through the same fault boundary as run_keyword; the
// auxiliary suffixes answer introspection without touching the keyword.
func (b *Bridge) CallFunction(ctx context.Context, name string, args []any, kwargs map[string]any) (any, error) {
	if b.introspection {
		switch name {
		case FuncListMethods:
			return b.RemoteFunctionNames(), nil
		case FuncMethodHelp:
			if len(args) != 1 {
				return nil, fmt.Errorf("%s expects exactly one method name argument", FuncMethodHelp)
			}
			base, _ := splitFunction(fmt.Sprint(args[0]))
			return b.GetKeywordDocumentation(base)
		}
	}
	if !b.registerKeywords {
		return nil, fmt.Errorf("%w: direct function export is disabled on this server", domain.ErrKeywordNotFound)
	}

	base, suffix := splitFunction(name)
	if suffix == "" {
		return b.RunKeyword(ctx, base, args, kwargs), nil
	}

	b.mu.RLock()
	_, handle, err := b.resolve(base)
	b.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	switch suffix {
	case SuffixRepr:
		return handle.Repr(), nil
	case SuffixDoc:
		return handle.Doc(), nil
	case SuffixNonzero:
		// A bound handle is always truthy, whatever the arguments.
		return true, nil
	}
	return nil, fmt.Errorf("%w: unknown auxiliary endpoint %q", domain.ErrKeywordNotFound, name)
}

// HasFunction reports whether name is a published remote function.
func (b *Bridge) HasFunction(name string) bool {
	for _, fn := range b.RemoteFunctionNames() {
		if fn == name {
			return true
		}
	}
	return false
}
