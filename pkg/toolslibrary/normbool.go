package toolslibrary

import (
	"fmt"
	"strings"
)

// BoolType parses text into a boolean according to a configured vocabulary
// of true and false words. Values are normalized before matching.
type BoolType struct {
	name      string
	trueSet   map[string]bool
	falseSet  map[string]bool
	ignore    string
	caseless  bool
	spaceless bool
}

// BoolTypeDef configures a named bool vocabulary. Empty True/False lists
// fall back to the standard vocabulary ("true"/"yes"/"on"/"1" and
// "false"/"no"/"off"/"0"/"").
type BoolTypeDef struct {
	Name      string
	True      []string
	False     []string
	Ignore    string
	Caseless  bool
	Spaceless bool
}

var defaultTrue = []string{"true", "yes", "on", "1"}
var defaultFalse = []string{"false", "no", "off", "0", ""}

// NewBoolType builds a bool vocabulary from its definition.
func NewBoolType(def BoolTypeDef) *BoolType {
	bt := &BoolType{
		name:      def.Name,
		trueSet:   make(map[string]bool),
		falseSet:  make(map[string]bool),
		ignore:    def.Ignore,
		caseless:  def.Caseless,
		spaceless: def.Spaceless,
	}
	trueWords := def.True
	if len(trueWords) == 0 {
		trueWords = defaultTrue
	}
	falseWords := def.False
	if len(falseWords) == 0 {
		falseWords = defaultFalse
	}
	for _, w := range trueWords {
		bt.trueSet[bt.normalize(w)] = true
	}
	for _, w := range falseWords {
		bt.falseSet[bt.normalize(w)] = true
	}
	return bt
}

// Name returns the vocabulary name.
func (bt *BoolType) Name() string { return bt.name }

func (bt *BoolType) normalize(s string) string {
	if bt.caseless {
		s = strings.ToLower(s)
	}
	if bt.spaceless {
		s = strings.Join(strings.Fields(s), "")
	}
	for _, r := range bt.ignore {
		s = strings.ReplaceAll(s, string(r), "")
	}
	return s
}

// Parse converts a value to a bool. Non-string values use Go truthiness
// for the common scalar types; strings are matched against the normalized
// vocabulary.
func (bt *BoolType) Parse(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		norm := bt.normalize(v)
		if bt.trueSet[norm] {
			return true, nil
		}
		if bt.falseSet[norm] {
			return false, nil
		}
		return false, fmt.Errorf("%q is not a valid %s value", v, bt.name)
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}
