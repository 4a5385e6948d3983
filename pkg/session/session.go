// Package session implements the named-session state axis of a library
// instance: per handler type, a registry of live sessions with an open,
// switch and close lifecycle and at most one "current" session.
//
// A session's payload (e.g. an open connection) is owned by exactly one
// entry in exactly one Set; ownership never transfers. The payload is
// acquired by the handler's Open and released by its Close, including the
// close triggered when the owning instance is shut down.
package session

import (
	"context"
	"fmt"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
)

// Handler opens and releases session payloads for one declared session
// handler type.
type Handler interface {
	// Meta returns the handler's name variants.
	Meta() Meta
	// Open acquires a new session payload from keyword arguments.
	Open(ctx context.Context, args []any, kwargs map[string]any) (any, error)
	// Close releases a payload previously returned by Open.
	Close(payload any) error
}

// Session is one live named (or unnamed) session.
type Session struct {
	Name    string
	Payload any
}

// Set is the per-handler-type session registry of a single library
// instance. It is not synchronized; the owning instance serializes all
// mutating calls behind its lock.
type Set struct {
	handler Handler
	meta    Meta

	sessions map[string]*Session
	order    []string
	current  *Session
}

// NewSet creates an empty registry for the given handler.
func NewSet(h Handler) *Set {
	return &Set{
		handler:  h,
		meta:     h.Meta(),
		sessions: make(map[string]*Session),
	}
}

// Meta returns the handler's name variants.
func (s *Set) Meta() Meta { return s.meta }

// Open acquires an unnamed session and makes it current. A previously
// running unnamed session is closed first; named sessions stay open.
func (s *Set) Open(ctx context.Context, args []any, kwargs map[string]any) error {
	payload, err := s.handler.Open(ctx, args, kwargs)
	if err != nil {
		return err
	}
	var stale *Session
	if s.current != nil && s.current.Name == "" {
		stale = s.current
	}
	// Track the new session before releasing the stale one, so a close
	// failure cannot orphan the freshly acquired payload.
	s.current = &Session{Payload: payload}
	if stale != nil {
		if cerr := s.handler.Close(stale.Payload); cerr != nil {
			return fmt.Errorf("%s: closing previous unnamed session: %w", s.meta.Verbose, cerr)
		}
	}
	return nil
}

// OpenNamed acquires a session under the given name and makes it current.
// The name must be free; on a duplicate nothing is acquired and the current
// session is unchanged.
func (s *Set) OpenNamed(ctx context.Context, name string, args []any, kwargs map[string]any) error {
	if _, ok := s.sessions[name]; ok {
		return fmt.Errorf("%s: %w: %q", s.meta.Verbose, domain.ErrDuplicateSession, name)
	}
	payload, err := s.handler.Open(ctx, args, kwargs)
	if err != nil {
		return err
	}
	sess := &Session{Name: name, Payload: payload}
	s.sessions[name] = sess
	s.order = append(s.order, name)
	s.current = sess
	return nil
}

// Switch makes the named session current.
func (s *Set) Switch(name string) error {
	sess, ok := s.sessions[name]
	if !ok {
		return fmt.Errorf("%s: %w: %q", s.meta.Verbose, domain.ErrSessionNotFound, name)
	}
	s.current = sess
	return nil
}

// Close releases the named session, or the current one when name is empty.
// Closing the current session clears the current pointer.
func (s *Set) Close(name string) error {
	var sess *Session
	if name == "" {
		if s.current == nil {
			return fmt.Errorf("%s: %w", s.meta.Verbose, domain.ErrNoActiveSession)
		}
		sess = s.current
	} else {
		var ok bool
		if sess, ok = s.sessions[name]; !ok {
			return fmt.Errorf("%s: %w: %q", s.meta.Verbose, domain.ErrSessionNotFound, name)
		}
	}

	s.remove(sess)
	if s.current == sess {
		s.current = nil
	}
	return s.handler.Close(sess.Payload)
}

// Current returns the active session.
func (s *Set) Current() (*Session, error) {
	if s.current == nil {
		return nil, fmt.Errorf("%s: %w", s.meta.Verbose, domain.ErrNoActiveSession)
	}
	return s.current, nil
}

// All returns a read-only copy of the named sessions mapping.
func (s *Set) All() map[string]*Session {
	out := make(map[string]*Session, len(s.sessions))
	for name, sess := range s.sessions {
		out[name] = sess
	}
	return out
}

// CloseAll releases every open session, named and unnamed. Used when the
// owning instance is destroyed. The first release error is returned after
// all sessions have been attempted.
func (s *Set) CloseAll() error {
	var firstErr error
	if s.current != nil && s.current.Name == "" {
		if err := s.handler.Close(s.current.Payload); err != nil {
			firstErr = err
		}
	}
	for _, name := range s.order {
		sess, ok := s.sessions[name]
		if !ok {
			continue
		}
		if err := s.handler.Close(sess.Payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.sessions = make(map[string]*Session)
	s.order = nil
	s.current = nil
	return firstErr
}

func (s *Set) remove(sess *Session) {
	if sess.Name == "" {
		return
	}
	delete(s.sessions, sess.Name)
	for i, name := range s.order {
		if name == sess.Name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
