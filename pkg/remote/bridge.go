package remote

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/MrSteve2/robotframework-tools/internal/logging"
	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/keyword"
	"github.com/MrSteve2/robotframework-tools/pkg/library"
	"github.com/MrSteve2/robotframework-tools/pkg/observability"
)

// Auxiliary endpoint suffixes published per keyword in registration mode.
// Remote transports cannot reflect on the callable itself, so its string
// form, doc string and truthiness are exported as plain functions.
const (
	SuffixRepr    = ".__repr__"
	SuffixDoc     = ".getdoc"
	SuffixNonzero = ".__nonzero__"
)

// XML-RPC style introspection function names, published when introspection
// mode is enabled.
const (
	FuncListMethods = "system.listMethods"
	FuncMethodHelp  = "system.methodHelp"
)

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// WithMetrics attaches Prometheus instrumentation to keyword execution and
// import attempts.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Bridge) { b.metrics = m }
}

// WithRegisterKeywords toggles registration mode: every keyword is also
// published as a direct remote function together with its __repr__, getdoc
// and __nonzero__ auxiliary endpoints. Enabled by default.
func WithRegisterKeywords(on bool) Option {
	return func(b *Bridge) { b.registerKeywords = on }
}

// WithIntrospection publishes the system.listMethods and system.methodHelp
// functions for remote clients that enumerate the function table.
func WithIntrospection(on bool) Option {
	return func(b *Bridge) { b.introspection = on }
}

// WithImportable makes a library template available to the Import Remote
// Library control keyword.
func WithImportable(tpl *library.Template) Option {
	return func(b *Bridge) { b.importable[tpl.Name()] = tpl }
}

// WithAllowImport restricts runtime imports to the named libraries. Without
// this option every importable template may be imported.
func WithAllowImport(names ...string) Option {
	return func(b *Bridge) {
		if b.allowImport == nil {
			b.allowImport = make(map[string]bool, len(names))
		}
		for _, name := range names {
			b.allowImport[name] = true
		}
	}
}

// Bridge republishes one or more library instances as a single remote
// surface: the four dynamic-API calls, the per-keyword auxiliary function
// endpoints, a runtime import gate and the stop control keyword.
//
// The wrapped instance list may grow concurrently with dispatch (imports
// during a run), so all traversals hold the bridge lock. Invocation of an
// individual keyword is serialized by its owning instance, not by the
// bridge.
type Bridge struct {
	mu     sync.RWMutex
	logger *slog.Logger

	libs        []*library.Library
	control     *library.Library
	importable  map[string]*library.Template
	allowImport map[string]bool

	registerKeywords bool
	introspection    bool
	metrics          *observability.Metrics

	done     chan struct{}
	stopOnce sync.Once
}

// NewBridge wraps the given library instances. Control keywords are always
// present; registration mode is on unless disabled.
func NewBridge(libs []*library.Library, opts ...Option) (*Bridge, error) {
	b := &Bridge{
		logger:           logging.NewNop(),
		libs:             libs,
		importable:       make(map[string]*library.Template),
		registerKeywords: true,
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	control, err := b.buildControlLibrary()
	if err != nil {
		return nil, fmt.Errorf("building bridge control keywords: %w", err)
	}
	b.control = control
	return b, nil
}

// buildControlLibrary declares the always-present control keywords as a
// regular library instance so they travel through the same dispatch path
// as user keywords.
func (b *Bridge) buildControlLibrary() (*library.Library, error) {
	tpl, err := library.NewTemplate("RemoteControl", library.Config{Logger: b.logger})
	if err != nil {
		return nil, err
	}
	chain, err := tpl.Keyword()
	if err != nil {
		return nil, err
	}
	defs := []keyword.Def{
		{
			Name: "StopRemoteServer",
			Doc:  "Stops the remote server, ending the current run.",
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				b.Stop()
				return true, nil
			},
		},
		{
			Name: "ImportRemoteLibrary",
			Doc: "Imports the named library into the running server.\n\n" +
				"Its keywords become available to subsequent calls. Fails if the " +
				"name is not on the server's import allow-list.",
			Args: []domain.ArgSpec{domain.Arg("name")},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				name := fmt.Sprint(args[0])
				return b.ImportLibrary(name)
			},
		},
	}
	for _, def := range defs {
		if _, err := chain.Register(def); err != nil {
			return nil, err
		}
	}
	return tpl.NewInstance(), nil
}

// all returns the wrapped instances in dispatch order, user libraries
// first so they shadow control keywords of the same name.
func (b *Bridge) all() []*library.Library {
	out := make([]*library.Library, 0, len(b.libs)+1)
	out = append(out, b.libs...)
	return append(out, b.control)
}

// resolve finds the owning instance and bound handle for a keyword name.
func (b *Bridge) resolve(name string) (*library.Library, *keyword.Handle, error) {
	for _, lib := range b.all() {
		handle, err := lib.Resolve(name)
		if err == nil {
			return lib, handle, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: no library on this server has a keyword %q", domain.ErrKeywordNotFound, name)
}

// GetKeywordNames returns the ordered union of all wrapped instances'
// keyword names plus the control keywords.
func (b *Bridge) GetKeywordNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	seen := make(map[string]bool)
	var names []string
	for _, lib := range b.all() {
		libNames, err := lib.GetKeywordNames()
		if err != nil {
			continue
		}
		for _, name := range libNames {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// GetKeywordArguments returns the transport form of the named keyword's
// argument spec: "name" for required arguments, "name=default" for
// optional ones, and a trailing "*varargs" for variadic keywords.
func (b *Bridge) GetKeywordArguments(name string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, handle, err := b.resolve(name)
	if err != nil {
		return nil, err
	}
	return FormatArgs(handle), nil
}

// GetKeywordDocumentation delegates to the owning instance.
func (b *Bridge) GetKeywordDocumentation(name string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, lib := range b.all() {
		doc, err := lib.GetKeywordDocumentation(name)
		if err == nil {
			return doc, nil
		}
	}
	return "", fmt.Errorf("%w: no library on this server has a keyword %q", domain.ErrKeywordNotFound, name)
}

// RunKeyword invokes the named keyword and reports the structured outcome.
// Any failure, including a panic in the keyword function, becomes a FAIL
// result; the transport loop never sees it as a crash.
func (b *Bridge) RunKeyword(ctx context.Context, name string, args []any, kwargs map[string]any) (result domain.RunResult) {
	b.mu.RLock()
	lib, handle, err := b.resolve(name)
	b.mu.RUnlock()
	if err != nil {
		return domain.Fail(err.Error(), "")
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("keyword panicked", "keyword", handle.Name(), "panic", r)
			result = domain.Fail(fmt.Sprint(r), string(debug.Stack()))
		}
		b.metrics.ObserveKeyword(lib.Name(), handle.Key(), result.Status, time.Since(start))
	}()

	ret, err := handle.Invoke(ctx, args, kwargs)
	if err != nil {
		b.logger.Debug("keyword failed", "keyword", handle.Name(), "err", err)
		return domain.Fail(err.Error(), "")
	}
	return domain.Pass(ret)
}

// ImportLibrary instantiates the named importable template and adds it to
// the dispatch set. Importing an already-imported library is a no-op. The
// full keyword name list after the import is returned.
func (b *Bridge) ImportLibrary(name string) ([]string, error) {
	b.mu.Lock()
	if b.allowImport != nil && !b.allowImport[name] {
		b.mu.Unlock()
		b.metrics.ObserveImport(name, "denied")
		return nil, fmt.Errorf("%w: library %q is not on the import allow-list", domain.ErrImportNotAllowed, name)
	}
	tpl, ok := b.importable[name]
	if !ok {
		b.mu.Unlock()
		b.metrics.ObserveImport(name, "unknown")
		return nil, fmt.Errorf("%w: no importable library %q on this server", domain.ErrKeywordNotFound, name)
	}
	already := false
	for _, lib := range b.libs {
		if lib.Name() == name {
			already = true
			break
		}
	}
	if !already {
		b.libs = append(b.libs, tpl.NewInstance())
	}
	b.mu.Unlock()

	b.metrics.ObserveImport(name, "ok")
	b.logger.Info("imported remote library", "library", name)
	return b.GetKeywordNames(), nil
}

// Stop signals the transport to shut down. Safe to call more than once.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		b.logger.Info("stopping remote server")
		close(b.done)
	})
}

// Done is closed when Stop has been called.
func (b *Bridge) Done() <-chan struct{} { return b.done }

// Close stops the bridge and releases the sessions of every wrapped
// instance. The first release error is returned.
func (b *Bridge) Close() error {
	b.Stop()

	b.mu.Lock()
	defer b.mu.Unlock()
	var firstErr error
	for _, lib := range b.all() {
		if err := lib.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FormatArgs renders a handle's argument spec in the transport form used
// by get_keyword_arguments.
func FormatArgs(handle *keyword.Handle) []string {
	specs := handle.Args()
	out := make([]string, 0, len(specs)+1)
	for _, spec := range specs {
		if spec.HasDefault {
			out = append(out, fmt.Sprintf("%s=%v", spec.Name, spec.Default))
		} else {
			out = append(out, spec.Name)
		}
	}
	if handle.Variadic() {
		out = append(out, "*varargs")
	}
	return out
}

// splitFunction separates an auxiliary function name into its keyword base
// and endpoint suffix.
func splitFunction(name string) (base, suffix string) {
	for _, s := range []string{SuffixRepr, SuffixDoc, SuffixNonzero} {
		if strings.HasSuffix(name, s) {
			return strings.TrimSuffix(name, s), s
		}
	}
	return name, ""
}
