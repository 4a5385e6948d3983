// Package context implements the "currently selected value" state axis of a
// library instance. Each declared context handler contributes one slot that
// tracks its active value and can be switched by generated keywords.
package context

import (
	"fmt"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
)

// Handler declares one context axis: a name, the value selected at
// instantiation time, and the set of values the axis may take. An empty
// Values list leaves the axis unconstrained.
type Handler struct {
	Name    string
	Default string
	Values  []string
}

// Allows reports whether value is a valid selection for this handler.
func (h Handler) Allows(value string) bool {
	if len(h.Values) == 0 {
		return true
	}
	for _, v := range h.Values {
		if v == value {
			return true
		}
	}
	return false
}

type slot struct {
	handler Handler
	current string
}

// Set holds one slot per declared context handler, in declaration order.
// It is not synchronized; the owning library instance serializes access.
type Set struct {
	slots []slot
}

// NewSet creates the slots for the declared handlers, each initialized to
// its default value.
func NewSet(handlers []Handler) *Set {
	s := &Set{slots: make([]slot, 0, len(handlers))}
	for _, h := range handlers {
		s.slots = append(s.slots, slot{handler: h, current: h.Default})
	}
	return s
}

func (s *Set) find(handler string) *slot {
	for i := range s.slots {
		if s.slots[i].handler.Name == handler {
			return &s.slots[i]
		}
	}
	return nil
}

// Current returns the active value of the given handler. A lookup for an
// undeclared handler is a configuration bug and fails accordingly.
func (s *Set) Current(handler string) (string, error) {
	sl := s.find(handler)
	if sl == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrNoContextHandler, handler)
	}
	return sl.current, nil
}

// Switch replaces the active value of the given handler.
func (s *Set) Switch(handler, value string) error {
	sl := s.find(handler)
	if sl == nil {
		return fmt.Errorf("%w: %s", domain.ErrNoContextHandler, handler)
	}
	if !sl.handler.Allows(value) {
		return fmt.Errorf("%w: %s has no context %q", domain.ErrUnknownContext, handler, value)
	}
	sl.current = value
	return nil
}

// Handlers returns the declared handlers in declaration order.
func (s *Set) Handlers() []Handler {
	out := make([]Handler, 0, len(s.slots))
	for _, sl := range s.slots {
		out = append(out, sl.handler)
	}
	return out
}
