// Package library implements the dynamic test library: a write-once
// Template holding the declared keyword set, keyword options and handler
// types, and the per-use Library instance exposing the dynamic API surface
// (get_keyword_names, run_keyword, get_keyword_documentation,
// get_keyword_arguments) over bound keyword handles.
package library

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrSteve2/robotframework-tools/internal/logging"
	ctxhandler "github.com/MrSteve2/robotframework-tools/pkg/context"
	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/keyword"
	"github.com/MrSteve2/robotframework-tools/pkg/naming"
	"github.com/MrSteve2/robotframework-tools/pkg/session"
)

// NamedOption pairs a keyword option with its registration name.
type NamedOption struct {
	Name   string
	Option keyword.Option
}

// Config declares everything a template is built from. Consumers usually
// go through the root package's functional options instead of filling
// this in directly.
type Config struct {
	Logger          *slog.Logger
	KeywordOptions  []NamedOption
	DefaultOptions  []string
	ContextHandlers []ctxhandler.Handler
	SessionHandlers []session.Handler
}

// OpenArgsDeclarer lets a session handler declare the argument spec of its
// generated open keywords. Handlers that do not implement it get variadic
// open keywords.
type OpenArgsDeclarer interface {
	OpenArgs() []domain.ArgSpec
}

// Template is the immutable declaration of a library: its keyword records,
// registered options and handler types. Built once per library definition;
// instances are created with NewInstance.
//
// Registering more keywords after the first instantiation is possible but
// hazardous: instances created earlier will not see them.
type Template struct {
	name     string
	logger   *slog.Logger
	keywords *keyword.Table[*keyword.Record]
	options  *keyword.OptionSet
	defaults []string

	contextHandlers []ctxhandler.Handler
	sessionHandlers []session.Handler
}

// NewTemplate builds a template: it registers the keyword options,
// validates the default option set, stores the handler declarations and
// generates the per-handler management keywords.
func NewTemplate(name string, cfg Config) (*Template, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	options := keyword.NewOptionSet()
	for _, opt := range cfg.KeywordOptions {
		if err := options.Register(opt.Name, opt.Option); err != nil {
			return nil, err
		}
	}
	for _, name := range cfg.DefaultOptions {
		if !options.Has(name) {
			return nil, fmt.Errorf("%w: default option %s", domain.ErrInvalidOption, name)
		}
	}

	seen := make(map[string]bool)
	for _, h := range cfg.ContextHandlers {
		if seen["context/"+h.Name] {
			return nil, fmt.Errorf("%w: context handler %s", domain.ErrDuplicateHandler, h.Name)
		}
		seen["context/"+h.Name] = true
	}
	for _, h := range cfg.SessionHandlers {
		upper := h.Meta().Upper
		if seen["session/"+upper] {
			return nil, fmt.Errorf("%w: session handler %s", domain.ErrDuplicateHandler, upper)
		}
		seen["session/"+upper] = true
	}

	t := &Template{
		name:            name,
		logger:          logger.With("library", name),
		keywords:        keyword.NewTable[*keyword.Record](),
		options:         options,
		defaults:        cfg.DefaultOptions,
		contextHandlers: cfg.ContextHandlers,
		sessionHandlers: cfg.SessionHandlers,
	}

	chain, err := t.Keyword()
	if err != nil {
		return nil, err
	}
	for _, h := range cfg.ContextHandlers {
		if err := registerContextKeywords(chain, h); err != nil {
			return nil, err
		}
	}
	for _, h := range cfg.SessionHandlers {
		if err := registerSessionKeywords(chain, h); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Name returns the library name.
func (t *Template) Name() string { return t.name }

// Keyword starts a registration chain over the template's keyword table,
// preloaded with the template's default options.
func (t *Template) Keyword() (keyword.Chain, error) {
	return keyword.NewChain(t.keywords, t.options, t.defaults...)
}

// Register declares a keyword through the default chain.
func (t *Template) Register(def keyword.Def) (*keyword.Record, error) {
	chain, err := t.Keyword()
	if err != nil {
		return nil, err
	}
	return chain.Register(def)
}

// KeywordNames returns the declared public keyword names in declaration
// order.
func (t *Template) KeywordNames() []string { return t.keywords.Names() }

// OptionNames returns the registered keyword option names.
func (t *Template) OptionNames() []string { return t.options.Names() }

// NewInstance creates a live library: a fresh bound keyword table (never
// sharing identity with the template's records table) and an initialized
// context/session state vector.
func (t *Template) NewInstance() *Library {
	st := keyword.NewState(t.name, t.logger, t.contextHandlers, t.sessionHandlers)

	handles := keyword.NewTable[*keyword.Handle]()
	t.keywords.Each(func(key string, rec *keyword.Record) {
		// Insert cannot collide: the record table is already name-unique.
		_ = handles.Insert(key, rec.Bind(st), false)
	})

	return &Library{
		name:        t.name,
		logger:      t.logger,
		keywords:    handles,
		state:       st,
		initialized: true,
	}
}

func registerContextKeywords(chain keyword.Chain, h ctxhandler.Handler) error {
	handler := h.Name
	def := keyword.Def{
		Name: "switch_" + naming.Encode(handler),
		Doc: fmt.Sprintf("Switch the active %s context.\n\nFails if the given value is not a declared %s context.",
			handler, handler),
		Args: []domain.ArgSpec{domain.Arg("value")},
		Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
			return nil, st.SwitchContext(handler, fmt.Sprint(args[0]))
		},
	}
	_, err := chain.Register(def)
	return err
}

func registerSessionKeywords(chain keyword.Chain, h session.Handler) error {
	meta := h.Meta()
	handler := meta.Upper

	openArgs := []domain.ArgSpec(nil)
	variadic := true
	if d, ok := h.(OpenArgsDeclarer); ok {
		openArgs = d.OpenArgs()
		variadic = false
	}

	defs := []keyword.Def{
		{
			Name: "open_" + meta.Identifier,
			Doc: fmt.Sprintf("Open an unnamed %s and make it the active one.\n\nA running unnamed %s is closed automatically.",
				meta.Verbose, meta.Verbose),
			Args:     openArgs,
			Variadic: variadic,
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				return nil, st.OpenSession(ctx, handler, args, kwargs)
			},
		},
		{
			Name: "open_named_" + meta.Identifier,
			Doc: fmt.Sprintf("Open a named %s and make it the active one.\n\nThe name must not be taken by another open %s.",
				meta.Verbose, meta.Verbose),
			Args:     append([]domain.ArgSpec{domain.Arg("name")}, openArgs...),
			Variadic: variadic,
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				if len(args) == 0 {
					return nil, fmt.Errorf("keyword %q expected a session name", naming.Decode("open_named_"+meta.Identifier))
				}
				return nil, st.OpenNamedSession(ctx, handler, fmt.Sprint(args[0]), args[1:], kwargs)
			},
		},
		{
			Name: "switch_" + meta.Identifier,
			Doc:  fmt.Sprintf("Make the named %s the active one.", meta.Verbose),
			Args: []domain.ArgSpec{domain.Arg("name")},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				return nil, st.SwitchSession(handler, fmt.Sprint(args[0]))
			},
		},
		{
			Name: "close_" + meta.Identifier,
			Doc: fmt.Sprintf("Close the named %s, or the active one if no name is given.\n\nThe session's resources are released.",
				meta.Verbose),
			Args: []domain.ArgSpec{domain.ArgDefault("name", "")},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				name := ""
				if len(args) > 0 {
					name = fmt.Sprint(args[0])
				}
				return nil, st.CloseSession(handler, name)
			},
		},
	}
	for _, def := range defs {
		if _, err := chain.Register(def); err != nil {
			return err
		}
	}
	return nil
}
