package keyword_test

import (
	"context"
	"testing"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/keyword"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// marker returns an option that appends its tag to a string result.
func marker(tag string) keyword.Option {
	return func(next keyword.Func) keyword.Func {
		return func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
			res, err := next(ctx, st, args, kwargs)
			if err != nil {
				return nil, err
			}
			return res.(string) + tag, nil
		}
	}
}

func newRegistry(t *testing.T) *keyword.OptionSet {
	t.Helper()
	reg := keyword.NewOptionSet()
	require.NoError(t, reg.Register("a", marker("A")))
	require.NoError(t, reg.Register("b", marker("B")))
	return reg
}

func rawKeyword() keyword.Def {
	return keyword.Def{
		Name: "make_marker",
		Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
			return "raw+", nil
		},
	}
}

// Adding option a then b must apply b's transformation to the result
// before a's: the stored sequence is most-recent first and each option
// wraps the previous composition.
func TestChainCompositionOrder(t *testing.T) {
	table := keyword.NewTable[*keyword.Record]()
	chain, err := keyword.NewChain(table, newRegistry(t))
	require.NoError(t, err)

	chain, err = chain.With("a")
	require.NoError(t, err)
	chain, err = chain.With("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, chain.Options())

	rec, err := chain.Register(rawKeyword())
	require.NoError(t, err)

	res, err := rec.Func(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "raw+BA", res)
}

func TestChainUnknownOption(t *testing.T) {
	table := keyword.NewTable[*keyword.Record]()
	chain, err := keyword.NewChain(table, newRegistry(t))
	require.NoError(t, err)

	_, err = chain.With("nonexistent")
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
	assert.Zero(t, table.Len(), "failed With must not touch the table")
}

func TestChainImmutability(t *testing.T) {
	table := keyword.NewTable[*keyword.Record]()
	base, err := keyword.NewChain(table, newRegistry(t))
	require.NoError(t, err)

	withA, err := base.With("a")
	require.NoError(t, err)

	assert.Empty(t, base.Options(), "With must not mutate the receiver")
	assert.Equal(t, []string{"a"}, withA.Options())
}

func TestChainDefaultsAndReset(t *testing.T) {
	table := keyword.NewTable[*keyword.Record]()
	chain, err := keyword.NewChain(table, newRegistry(t), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, chain.Options())

	rec, err := chain.Register(rawKeyword())
	require.NoError(t, err)
	res, err := rec.Func(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "raw+A", res)

	// Reset drops the defaults; re-registering overwrites in place.
	rec, err = chain.Reset().Register(rawKeyword())
	require.NoError(t, err)
	res, err = rec.Func(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "raw+", res)
	assert.Equal(t, 1, table.Len())
}

func TestChainRegisterPublicName(t *testing.T) {
	table := keyword.NewTable[*keyword.Record]()
	chain, err := keyword.NewChain(table, newRegistry(t))
	require.NoError(t, err)

	def := rawKeyword()
	def.Name = "MakeMarker"
	rec, err := chain.Register(def)
	require.NoError(t, err)
	assert.Equal(t, "make_marker", rec.Key)
	assert.Equal(t, "MakeMarker", rec.Name())
}

func TestOptionSetDuplicate(t *testing.T) {
	reg := keyword.NewOptionSet()
	require.NoError(t, reg.Register("a", marker("A")))
	err := reg.Register("a", marker("A"))
	assert.ErrorIs(t, err, domain.ErrDuplicateOption)
}
