package keyword_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/keyword"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greetRecord() *keyword.Record {
	return &keyword.Record{
		Key:  "greet_user",
		Doc:  "Greets the given user.",
		Args: []domain.ArgSpec{domain.Arg("name"), domain.ArgDefault("greeting", "Hello")},
		Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
			greeting := "Hello"
			if len(args) > 1 {
				greeting = fmt.Sprint(args[1])
			} else if g, ok := kwargs["greeting"]; ok {
				greeting = fmt.Sprint(g)
			}
			return fmt.Sprintf("%s %v", greeting, args[0]), nil
		},
	}
}

func TestHandleInvoke(t *testing.T) {
	h := greetRecord().Bind(nil)
	ctx := context.Background()

	res, err := h.Invoke(ctx, []any{"World"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", res)

	res, err = h.Invoke(ctx, []any{"World"}, map[string]any{"greeting": "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "Hi World", res)
}

func TestHandleInvokeArgValidation(t *testing.T) {
	h := greetRecord().Bind(nil)
	ctx := context.Background()

	_, err := h.Invoke(ctx, nil, nil)
	assert.ErrorContains(t, err, "at least 1")

	_, err = h.Invoke(ctx, []any{"a", "b", "c"}, nil)
	assert.ErrorContains(t, err, "at most 2")

	_, err = h.Invoke(ctx, []any{"World"}, map[string]any{"volume": 11})
	assert.ErrorContains(t, err, "unexpected named argument")
}

func TestHandleDebugPaths(t *testing.T) {
	h := greetRecord().Bind(nil)
	ctx := context.Background()

	res, err := h.Debug(ctx, "World Howdy")
	require.NoError(t, err)
	assert.Equal(t, "Howdy World", res)

	res, err = h.Debug(ctx, "[ World | Howdy ]")
	require.NoError(t, err)
	assert.Equal(t, "Howdy World", res)

	res, err = h.Cell(ctx, "World\nHowdy")
	require.NoError(t, err)
	assert.Equal(t, "Howdy World", res)
}

func TestHandleRepr(t *testing.T) {
	h := greetRecord().Bind(nil)
	assert.Equal(t, "GreetUser [ name | greeting=Hello ]", h.Repr())
}
