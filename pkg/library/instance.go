package library

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/keyword"
)

// Synthetic documentation names reserved for library-level and constructor
// documentation on the dynamic API.
const (
	IntroDoc = "__intro__"
	InitDoc  = "__init__"
)

// Library is a live, per-use instance of a Template: it owns its bound
// keyword handles and its context/session state. Instances never share
// keyword tables or state with each other or with the template.
//
// The zero value is unusable; every dynamic API call on it fails with
// ErrNotInitialized. Use Template.NewInstance.
type Library struct {
	name        string
	logger      *slog.Logger
	keywords    *keyword.Table[*keyword.Handle]
	state       *keyword.State
	initialized bool
}

func (l *Library) ready() error {
	if !l.initialized {
		return fmt.Errorf("%w: %q has no instance-bound keyword table, was the instance built with NewInstance?",
			domain.ErrNotInitialized, l.name)
	}
	return nil
}

// Name returns the library name.
func (l *Library) Name() string { return l.name }

// State returns the instance's mutable context/session state vector.
func (l *Library) State() *keyword.State { return l.state }

// GetKeywordNames returns all public keyword names in declaration order.
func (l *Library) GetKeywordNames() ([]string, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	return l.keywords.Names(), nil
}

// RunKeyword resolves the named keyword and invokes it with the given
// positional and named arguments. Failures of the keyword itself propagate
// unchanged.
func (l *Library) RunKeyword(ctx context.Context, name string, args []any, kwargs map[string]any) (any, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	handle, err := l.keywords.Get(name)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("running keyword", "keyword", handle.Name(), "args", len(args))
	return handle.Invoke(ctx, args, kwargs)
}

// GetKeywordDocumentation returns the doc string of the named keyword. The
// synthetic names __intro__ and __init__ always yield an empty string.
func (l *Library) GetKeywordDocumentation(name string) (string, error) {
	if err := l.ready(); err != nil {
		return "", err
	}
	if name == IntroDoc || name == InitDoc {
		return "", nil
	}
	handle, err := l.keywords.Get(name)
	if err != nil {
		return "", err
	}
	return handle.Doc(), nil
}

// GetKeywordArguments returns the ordered argument spec of the named
// keyword.
func (l *Library) GetKeywordArguments(name string) ([]domain.ArgSpec, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	handle, err := l.keywords.Get(name)
	if err != nil {
		return nil, err
	}
	return handle.Args(), nil
}

// Resolve looks up the bound handle for a public (or canonical) keyword
// name, for direct calls and introspection.
func (l *Library) Resolve(name string) (*keyword.Handle, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	handle, err := l.keywords.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q instance has no attribute or keyword %q", domain.ErrKeywordNotFound, l.name, name)
	}
	return handle, nil
}

// Dir returns the public keyword names for interactive enumeration.
func (l *Library) Dir() ([]string, error) {
	return l.GetKeywordNames()
}

// Close releases every open session of the instance. Call when the
// enclosing run is destroyed.
func (l *Library) Close() error {
	if err := l.ready(); err != nil {
		return err
	}
	return l.state.Close()
}
