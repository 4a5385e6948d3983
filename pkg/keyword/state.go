package keyword

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	ctxhandler "github.com/MrSteve2/robotframework-tools/pkg/context"
	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/session"
)

// State is the mutable context/session vector of one library instance. It
// is handed to every bound keyword at call time instead of living in
// ambient or global storage.
//
// All state mutation goes through one exclusive lock per instance, so a
// remote transport may dispatch concurrent calls against the same
// instance safely. The keyword table itself is immutable after
// instantiation and is not guarded here.
type State struct {
	library string
	logger  *slog.Logger

	mu       sync.Mutex
	contexts *ctxhandler.Set
	sessions map[string]*session.Set
	order    []string
}

// NewState builds the state vector: one context slot per declared context
// handler (at its default value, in declaration order) and one empty
// session set per declared session handler.
func NewState(library string, logger *slog.Logger, contexts []ctxhandler.Handler, handlers []session.Handler) *State {
	st := &State{
		library:  library,
		logger:   logger,
		contexts: ctxhandler.NewSet(contexts),
		sessions: make(map[string]*session.Set, len(handlers)),
	}
	for _, h := range handlers {
		name := h.Meta().Upper
		st.sessions[name] = session.NewSet(h)
		st.order = append(st.order, name)
	}
	return st
}

// Library returns the name of the owning library instance.
func (st *State) Library() string { return st.library }

// Logger returns the instance logger.
func (st *State) Logger() *slog.Logger { return st.logger }

// CurrentContext returns the active value of a declared context handler.
func (st *State) CurrentContext(handler string) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.contexts.Current(handler)
}

// SwitchContext replaces the active value of a declared context handler.
func (st *State) SwitchContext(handler, value string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.contexts.Switch(handler, value)
}

func (st *State) set(handler string) (*session.Set, error) {
	s, ok := st.sessions[handler]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSessionHandler, handler)
	}
	return s, nil
}

// OpenSession opens an unnamed session for the given handler type
// (by its Upper meta name, e.g. "Redis") and makes it current.
func (st *State) OpenSession(ctx context.Context, handler string, args []any, kwargs map[string]any) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.set(handler)
	if err != nil {
		return err
	}
	return s.Open(ctx, args, kwargs)
}

// OpenNamedSession opens a named session and makes it current.
func (st *State) OpenNamedSession(ctx context.Context, handler, name string, args []any, kwargs map[string]any) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.set(handler)
	if err != nil {
		return err
	}
	return s.OpenNamed(ctx, name, args, kwargs)
}

// SwitchSession makes a named session the current one.
func (st *State) SwitchSession(handler, name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.set(handler)
	if err != nil {
		return err
	}
	return s.Switch(name)
}

// CloseSession closes the named session, or the current one when name is
// empty, releasing its payload.
func (st *State) CloseSession(handler, name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.set(handler)
	if err != nil {
		return err
	}
	return s.Close(name)
}

// CurrentSession returns the handler's active session.
func (st *State) CurrentSession(handler string) (*session.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.set(handler)
	if err != nil {
		return nil, err
	}
	return s.Current()
}

// Sessions returns a read-only copy of the handler's named sessions.
func (st *State) Sessions(handler string) (map[string]*session.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.set(handler)
	if err != nil {
		return nil, err
	}
	return s.All(), nil
}

// SessionHandlers returns the declared session handler names in
// declaration order.
func (st *State) SessionHandlers() []string {
	out := make([]string, len(st.order))
	copy(out, st.order)
	return out
}

// Close releases every open session of every handler. Called when the
// owning instance is destroyed; the first release error is reported after
// all handlers have been drained.
func (st *State) Close() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	var firstErr error
	for _, name := range st.order {
		if err := st.sessions[name].CloseAll(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
