// Package toolslibrary is a small utility keyword library: value
// conversion keywords with registrable bool vocabularies.
package toolslibrary

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/keyword"
	"github.com/MrSteve2/robotframework-tools/pkg/library"
)

// Config configures the tools library template.
type Config struct {
	Logger *slog.Logger `mapstructure:"-"`
	// BoolTypes are extra named vocabularies for Convert To Bool, on top
	// of the standard one.
	BoolTypes []BoolTypeDef `mapstructure:"bool_types"`
}

// NewTemplate builds the tools library.
func NewTemplate(cfg Config) (*library.Template, error) {
	boolTypes := map[string]*BoolType{
		"": NewBoolType(BoolTypeDef{Name: "Bool", Caseless: true, Spaceless: true}),
	}
	for _, def := range cfg.BoolTypes {
		if def.Name == "" {
			return nil, fmt.Errorf("bool type needs a name")
		}
		if _, dup := boolTypes[def.Name]; dup {
			return nil, fmt.Errorf("bool type %q registered twice", def.Name)
		}
		boolTypes[def.Name] = NewBoolType(def)
	}

	tpl, err := library.NewTemplate("Tools", library.Config{Logger: cfg.Logger})
	if err != nil {
		return nil, err
	}
	chain, err := tpl.Keyword()
	if err != nil {
		return nil, err
	}

	defs := []keyword.Def{
		{
			Name: "ConvertToBool",
			Doc: "Converts a value to a boolean.\n\n" +
				"An optional bool_type selects a registered vocabulary of " +
				"true/false words; the default accepts true/yes/on/1 and " +
				"false/no/off/0.",
			Args: []domain.ArgSpec{domain.Arg("value"), domain.ArgDefault("bool_type", "")},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				typeName := ""
				if len(args) > 1 {
					typeName = fmt.Sprint(args[1])
				}
				bt, ok := boolTypes[typeName]
				if !ok {
					return nil, fmt.Errorf("no such bool type registered: %q", typeName)
				}
				return bt.Parse(args[0])
			},
		},
		{
			Name: "ConvertToInteger",
			Doc:  "Converts a value to an integer.",
			Args: []domain.ArgSpec{domain.Arg("value")},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				return convertToInteger(args[0])
			},
		},
		{
			Name: "ConvertToNumber",
			Doc:  "Converts a value to a floating point number.",
			Args: []domain.ArgSpec{domain.Arg("value")},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				return convertToNumber(args[0])
			},
		},
		{
			Name: "ConvertToString",
			Doc:  "Converts a value to its string form.",
			Args: []domain.ArgSpec{domain.Arg("value")},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				return fmt.Sprint(args[0]), nil
			},
		},
	}
	for _, def := range defs {
		if _, err := chain.Register(def); err != nil {
			return nil, err
		}
	}
	return tpl, nil
}

func convertToInteger(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%q cannot be converted to an integer", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%T cannot be converted to an integer", value)
	}
}

func convertToNumber(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%q cannot be converted to a number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%T cannot be converted to a number", value)
	}
}
