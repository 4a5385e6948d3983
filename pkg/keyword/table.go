package keyword

import (
	"fmt"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/naming"
)

// Table is an ordered, name-unique store of keyword entries. The template
// side stores *Record, the instance side *Handle; both share the same
// lookup and enumeration semantics.
//
// A Table is mutable during library declaration and immutable once an
// instance is built from it, so instance-side reads need no locking.
type Table[T any] struct {
	keys  []string
	items map[string]T
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{items: make(map[string]T)}
}

// Insert stores an entry under its canonical key. Without overwrite a key
// collision fails; with overwrite the entry is replaced in place, keeping
// its original position. Overwriting is intentional for option
// redefinition of an existing keyword.
func (t *Table[T]) Insert(key string, item T, overwrite bool) error {
	if _, ok := t.items[key]; ok {
		if !overwrite {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateKeyword, key)
		}
		t.items[key] = item
		return nil
	}
	t.keys = append(t.keys, key)
	t.items[key] = item
	return nil
}

// Get resolves an entry by canonical key or public name.
func (t *Table[T]) Get(name string) (T, error) {
	if item, ok := t.items[name]; ok {
		return item, nil
	}
	if item, ok := t.items[naming.Encode(name)]; ok {
		return item, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s", domain.ErrKeywordNotFound, name)
}

// Has reports whether name resolves to an entry.
func (t *Table[T]) Has(name string) bool {
	_, err := t.Get(name)
	return err == nil
}

// Keys returns the canonical keys in insertion order.
func (t *Table[T]) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Names returns the public keyword names in insertion order.
func (t *Table[T]) Names() []string {
	out := make([]string, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, naming.Decode(key))
	}
	return out
}

// Len returns the number of stored entries.
func (t *Table[T]) Len() int { return len(t.keys) }

// Each calls fn for every entry in insertion order.
func (t *Table[T]) Each(fn func(key string, item T)) {
	for _, key := range t.keys {
		fn(key, t.items[key])
	}
}
