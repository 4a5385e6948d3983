package session

import (
	"strings"

	"github.com/MrSteve2/robotframework-tools/pkg/naming"
)

// Meta holds the name variants of a session handler, used for generated
// keyword names, accessor identifiers and error messages.
type Meta struct {
	// Name is the lower-case base name, e.g. "redis".
	Name string
	// Upper is the capitalized base name, e.g. "Redis".
	Upper string
	// Identifier is the canonical identifier, e.g. "redis_session".
	Identifier string
	// PluralIdentifier names the sessions mapping, e.g. "redis_sessions".
	PluralIdentifier string
	// Verbose is the human-facing name, e.g. "Redis Session".
	Verbose string
	// PluralVerbose is the plural human-facing name, e.g. "Redis Sessions".
	PluralVerbose string
}

// MetaDefs carries explicit overrides for the derived name variants.
// Zero fields keep their derived value.
type MetaDefs struct {
	Name             string
	Identifier       string
	PluralIdentifier string
	Verbose          string
	PluralVerbose    string
}

// NewMeta derives all name variants from the handler name, applying any
// explicit overrides from defs.
func NewMeta(handlerName string, defs *MetaDefs) Meta {
	if defs == nil {
		defs = &MetaDefs{}
	}
	name := defs.Name
	if name == "" {
		name = naming.Encode(handlerName)
	}
	upper := naming.Decode(name)

	identifier := defs.Identifier
	if identifier == "" {
		identifier = name + "_session"
	}
	plural := defs.PluralIdentifier
	if plural == "" {
		plural = identifier + "s"
	}
	verbose := defs.Verbose
	if verbose == "" {
		words := strings.Split(identifier, naming.Separator)
		for i, w := range words {
			words[i] = naming.Decode(w)
		}
		verbose = strings.Join(words, " ")
	}
	pluralVerbose := defs.PluralVerbose
	if pluralVerbose == "" {
		pluralVerbose = verbose + "s"
	}

	return Meta{
		Name:             name,
		Upper:            upper,
		Identifier:       identifier,
		PluralIdentifier: plural,
		Verbose:          verbose,
		PluralVerbose:    pluralVerbose,
	}
}
