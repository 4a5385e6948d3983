package keyword

import (
	"fmt"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/naming"
)

// OptionSet is the registry of named keyword options of one template.
// Options are registered once, at template build time; chains only accept
// names from this set.
type OptionSet struct {
	names   []string
	options map[string]Option
}

// NewOptionSet creates an empty option registry.
func NewOptionSet() *OptionSet {
	return &OptionSet{options: make(map[string]Option)}
}

// Register adds a named option. Registering a name twice is a
// configuration error.
func (s *OptionSet) Register(name string, opt Option) error {
	if _, ok := s.options[name]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateOption, name)
	}
	s.names = append(s.names, name)
	s.options[name] = opt
	return nil
}

// Has reports whether name is registered.
func (s *OptionSet) Has(name string) bool {
	_, ok := s.options[name]
	return ok
}

// Names returns the registered option names in registration order.
func (s *OptionSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Def declares a raw keyword for registration through a Chain. Name may be
// given in canonical or public form.
type Def struct {
	Name     string
	Doc      string
	Args     []domain.ArgSpec
	Variadic bool
	Func     Func
}

// Chain is an immutable builder that accumulates option names and, on
// Register, wraps a raw keyword function with each option's transformation
// before inserting the record into the target table.
//
// Each With call returns a new chain with the name prepended, so the
// stored sequence runs most-recent first. Register reduces that sequence
// left to right (fn = option(fn)), which means the most recently added
// option transforms the call result first. The ordering is observable
// whenever two options touch the same data and must not change.
type Chain struct {
	table    *Table[*Record]
	registry *OptionSet
	options  []string
}

// NewChain starts an empty chain over the target table. The given default
// option names are applied to every keyword registered through the chain
// unless Reset is called first.
func NewChain(table *Table[*Record], registry *OptionSet, defaults ...string) (Chain, error) {
	c := Chain{table: table, registry: registry}
	for _, name := range defaults {
		var err error
		if c, err = c.With(name); err != nil {
			return Chain{}, err
		}
	}
	return c, nil
}

// With returns a new chain with the named option prepended. Unknown names
// are a configuration error caught here, at decoration time; the target
// table is never touched.
func (c Chain) With(name string) (Chain, error) {
	if c.registry == nil || !c.registry.Has(name) {
		return Chain{}, fmt.Errorf("%w: %s", domain.ErrInvalidOption, name)
	}
	options := make([]string, 0, len(c.options)+1)
	options = append(options, name)
	options = append(options, c.options...)
	return Chain{table: c.table, registry: c.registry, options: options}, nil
}

// Reset returns a chain over the same table with all options cleared,
// including the defaults.
func (c Chain) Reset() Chain {
	return Chain{table: c.table, registry: c.registry}
}

// Options returns the accumulated option names, most recent first.
func (c Chain) Options() []string {
	out := make([]string, len(c.options))
	copy(out, c.options)
	return out
}

// Register composes the stored options onto the raw function, builds the
// record and inserts it into the table with overwrite semantics.
func (c Chain) Register(def Def) (*Record, error) {
	if def.Func == nil {
		return nil, fmt.Errorf("keyword %q has no function", def.Name)
	}
	fn := def.Func
	for _, name := range c.options {
		fn = c.registry.options[name](fn)
	}
	rec := &Record{
		Key:      naming.Encode(def.Name),
		Doc:      def.Doc,
		Args:     def.Args,
		Variadic: def.Variadic,
		Func:     fn,
	}
	if err := c.table.Insert(rec.Key, rec, true); err != nil {
		return nil, err
	}
	return rec, nil
}
