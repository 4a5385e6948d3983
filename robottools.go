package robottools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	ctxhandler "github.com/MrSteve2/robotframework-tools/pkg/context"
	"github.com/MrSteve2/robotframework-tools/pkg/keyword"
	"github.com/MrSteve2/robotframework-tools/pkg/library"
	"github.com/MrSteve2/robotframework-tools/pkg/session"
)

// Template is the immutable declaration of a dynamic test library.
type Template = library.Template

// Library is a live instance of a Template.
type Library = library.Library

// Option configures a library template under construction.
type Option func(*builder)

type builder struct {
	cfg library.Config
}

// WithLogger sets a structured logger for the library and its instances.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) {
		b.cfg.Logger = logger
	}
}

// WithKeywordOption registers a named keyword option that registration
// chains may apply.
func WithKeywordOption(name string, opt keyword.Option) Option {
	return func(b *builder) {
		b.cfg.KeywordOptions = append(b.cfg.KeywordOptions, library.NamedOption{Name: name, Option: opt})
	}
}

// WithDefaultKeywordOptions applies the named options to every keyword
// registered through the template's default chain.
func WithDefaultKeywordOptions(names ...string) Option {
	return func(b *builder) {
		b.cfg.DefaultOptions = append(b.cfg.DefaultOptions, names...)
	}
}

// WithContextHandler declares a context axis on the template and generates
// its switch keyword.
func WithContextHandler(h ctxhandler.Handler) Option {
	return func(b *builder) {
		b.cfg.ContextHandlers = append(b.cfg.ContextHandlers, h)
	}
}

// WithSessionHandler declares a session handler type on the template and
// generates its open/switch/close keywords.
func WithSessionHandler(h session.Handler) Option {
	return func(b *builder) {
		b.cfg.SessionHandlers = append(b.cfg.SessionHandlers, h)
	}
}

// New builds a library template. The returned value is the explicit
// replacement for runtime type synthesis: consumers hold the template and
// call NewInstance per use.
func New(name string, opts ...Option) (*Template, error) {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	tpl, err := library.NewTemplate(name, b.cfg)
	if err != nil {
		return nil, fmt.Errorf("building library %q: %w", name, err)
	}
	return tpl, nil
}

// Built-in keyword options, available to any template that registers them.

// OptionStringify converts []byte and fmt.Stringer positional arguments to
// plain strings before the keyword runs.
func OptionStringify(next keyword.Func) keyword.Func {
	return func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
		coerced := make([]any, len(args))
		for i, a := range args {
			switch v := a.(type) {
			case []byte:
				coerced[i] = string(v)
			case fmt.Stringer:
				coerced[i] = v.String()
			default:
				coerced[i] = a
			}
		}
		return next(ctx, st, coerced, kwargs)
	}
}

// OptionTrimSpace strips surrounding whitespace from string positional
// arguments, which the debug invocation paths tend to produce.
func OptionTrimSpace(next keyword.Func) keyword.Func {
	return func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
		trimmed := make([]any, len(args))
		for i, a := range args {
			if s, ok := a.(string); ok {
				trimmed[i] = strings.TrimSpace(s)
			} else {
				trimmed[i] = a
			}
		}
		return next(ctx, st, trimmed, kwargs)
	}
}
