package remote_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/keyword"
	"github.com/MrSteve2/robotframework-tools/pkg/library"
	"github.com/MrSteve2/robotframework-tools/pkg/remote"
)

func greeterTemplate(t *testing.T) *library.Template {
	t.Helper()

	tpl, err := library.NewTemplate("Greeter", library.Config{})
	require.NoError(t, err)
	chain, err := tpl.Keyword()
	require.NoError(t, err)

	_, err = chain.Register(keyword.Def{
		Name: "GreetUser",
		Doc:  "Greets the named user.",
		Args: []domain.ArgSpec{domain.Arg("name"), domain.ArgDefault("greeting", "Hello")},
		Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
			greeting := "Hello"
			if len(args) > 1 {
				greeting = args[1].(string)
			}
			return greeting + " " + args[0].(string), nil
		},
	})
	require.NoError(t, err)
	_, err = chain.Register(keyword.Def{
		Name: "AlwaysFail",
		Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
			return nil, errors.New("deliberate failure")
		},
	})
	require.NoError(t, err)
	_, err = chain.Register(keyword.Def{
		Name: "BlowUp",
		Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
			panic("keyword exploded")
		},
	})
	require.NoError(t, err)
	return tpl
}

func newGreeterBridge(t *testing.T, opts ...remote.Option) *remote.Bridge {
	t.Helper()
	bridge, err := remote.NewBridge([]*library.Library{greeterTemplate(t).NewInstance()}, opts...)
	require.NoError(t, err)
	return bridge
}

func TestBridgeKeywordNames(t *testing.T) {
	bridge := newGreeterBridge(t)

	names := bridge.GetKeywordNames()
	assert.Contains(t, names, "GreetUser")
	assert.Contains(t, names, "StopRemoteServer")
	assert.Contains(t, names, "ImportRemoteLibrary")
}

func TestBridgeRunKeywordPass(t *testing.T) {
	bridge := newGreeterBridge(t)

	res := bridge.RunKeyword(context.Background(), "GreetUser", []any{"World"}, nil)
	assert.Equal(t, domain.StatusPass, res.Status)
	assert.Equal(t, "Hello World", res.Return)
	assert.Empty(t, res.Error)
}

func TestBridgeRunKeywordFailure(t *testing.T) {
	bridge := newGreeterBridge(t)

	res := bridge.RunKeyword(context.Background(), "AlwaysFail", nil, nil)
	assert.Equal(t, domain.StatusFail, res.Status)
	assert.Equal(t, "deliberate failure", res.Error)
}

func TestBridgeRunKeywordPanicBecomesFail(t *testing.T) {
	bridge := newGreeterBridge(t)

	res := bridge.RunKeyword(context.Background(), "BlowUp", nil, nil)
	assert.Equal(t, domain.StatusFail, res.Status)
	assert.Equal(t, "keyword exploded", res.Error)
	assert.Contains(t, res.Traceback, "goroutine")
}

func TestBridgeRunKeywordUnknown(t *testing.T) {
	bridge := newGreeterBridge(t)

	res := bridge.RunKeyword(context.Background(), "NoSuchKeyword", nil, nil)
	assert.Equal(t, domain.StatusFail, res.Status)
	assert.Contains(t, res.Error, "NoSuchKeyword")
}

func TestBridgeArgumentsAndDocumentation(t *testing.T) {
	bridge := newGreeterBridge(t)

	args, err := bridge.GetKeywordArguments("GreetUser")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "greeting=Hello"}, args)

	doc, err := bridge.GetKeywordDocumentation("GreetUser")
	require.NoError(t, err)
	assert.Equal(t, "Greets the named user.", doc)

	_, err = bridge.GetKeywordArguments("Missing")
	assert.ErrorIs(t, err, domain.ErrKeywordNotFound)
}

func TestBridgeRegistrationMode(t *testing.T) {
	bridge := newGreeterBridge(t)

	fns := bridge.RemoteFunctionNames()
	assert.Contains(t, fns, "GreetUser")
	assert.Contains(t, fns, "GreetUser.__repr__")
	assert.Contains(t, fns, "GreetUser.getdoc")
	assert.Contains(t, fns, "GreetUser.__nonzero__")

	ctx := context.Background()
	out, err := bridge.CallFunction(ctx, "GreetUser.__nonzero__", []any{"ignored", "args"}, nil)
	require.NoError(t, err)
	assert.Equal(t, true, out)

	out, err = bridge.CallFunction(ctx, "GreetUser.__repr__", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "GreetUser [ name | greeting=Hello ]", out)

	out, err = bridge.CallFunction(ctx, "GreetUser.getdoc", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Greets the named user.", out)

	out, err = bridge.CallFunction(ctx, "GreetUser", []any{"Remote"}, nil)
	require.NoError(t, err)
	res, ok := out.(domain.RunResult)
	require.True(t, ok)
	assert.Equal(t, "Hello Remote", res.Return)
}

func TestBridgeRegistrationModeDisabled(t *testing.T) {
	bridge := newGreeterBridge(t, remote.WithRegisterKeywords(false))

	assert.Empty(t, bridge.RemoteFunctionNames())
	_, err := bridge.CallFunction(context.Background(), "GreetUser", nil, nil)
	assert.ErrorIs(t, err, domain.ErrKeywordNotFound)

	// The standard dynamic-API surface stays available.
	res := bridge.RunKeyword(context.Background(), "GreetUser", []any{"World"}, nil)
	assert.Equal(t, domain.StatusPass, res.Status)
}

func TestBridgeIntrospection(t *testing.T) {
	bridge := newGreeterBridge(t, remote.WithIntrospection(true))

	fns := bridge.RemoteFunctionNames()
	assert.Contains(t, fns, remote.FuncListMethods)

	out, err := bridge.CallFunction(context.Background(), remote.FuncListMethods, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, out.([]string), "GreetUser.getdoc")

	out, err = bridge.CallFunction(context.Background(), remote.FuncMethodHelp, []any{"GreetUser.__repr__"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Greets the named user.", out)
}

func TestBridgeImportGate(t *testing.T) {
	libA, err := library.NewTemplate("LibA", library.Config{})
	require.NoError(t, err)
	_, err = libA.Register(keyword.Def{
		Name: "FromLibA",
		Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
			return "a", nil
		},
	})
	require.NoError(t, err)
	libB, err := library.NewTemplate("LibB", library.Config{})
	require.NoError(t, err)

	bridge, err := remote.NewBridge(nil,
		remote.WithImportable(libA),
		remote.WithImportable(libB),
		remote.WithAllowImport("LibA"),
	)
	require.NoError(t, err)

	_, err = bridge.ImportLibrary("LibB")
	assert.ErrorIs(t, err, domain.ErrImportNotAllowed)

	names, err := bridge.ImportLibrary("LibA")
	require.NoError(t, err)
	assert.Contains(t, names, "FromLibA")
	assert.Contains(t, bridge.GetKeywordNames(), "FromLibA")

	// Importing again is a no-op, not a duplicate.
	again, err := bridge.ImportLibrary("LibA")
	require.NoError(t, err)
	assert.Equal(t, names, again)
}

func TestBridgeImportViaKeyword(t *testing.T) {
	libA, err := library.NewTemplate("LibA", library.Config{})
	require.NoError(t, err)

	bridge, err := remote.NewBridge(nil, remote.WithImportable(libA))
	require.NoError(t, err)

	res := bridge.RunKeyword(context.Background(), "ImportRemoteLibrary", []any{"LibA"}, nil)
	assert.Equal(t, domain.StatusPass, res.Status)

	res = bridge.RunKeyword(context.Background(), "ImportRemoteLibrary", []any{"NotThere"}, nil)
	assert.Equal(t, domain.StatusFail, res.Status)
}

func TestBridgeStop(t *testing.T) {
	bridge := newGreeterBridge(t)

	select {
	case <-bridge.Done():
		t.Fatal("bridge reported done before stop")
	default:
	}

	res := bridge.RunKeyword(context.Background(), "StopRemoteServer", nil, nil)
	assert.Equal(t, domain.StatusPass, res.Status)

	select {
	case <-bridge.Done():
	default:
		t.Fatal("bridge not done after StopRemoteServer")
	}

	// Stop is idempotent through Close as well.
	require.NoError(t, bridge.Close())
}
