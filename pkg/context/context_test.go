package context_test

import (
	"testing"

	ctxhandler "github.com/MrSteve2/robotframework-tools/pkg/context"
	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaultsAndSwitch(t *testing.T) {
	set := ctxhandler.NewSet([]ctxhandler.Handler{
		{Name: "Profile", Default: "dev", Values: []string{"dev", "prod"}},
		{Name: "Region", Default: "eu"},
	})

	current, err := set.Current("Profile")
	require.NoError(t, err)
	assert.Equal(t, "dev", current)

	require.NoError(t, set.Switch("Profile", "prod"))
	current, err = set.Current("Profile")
	require.NoError(t, err)
	assert.Equal(t, "prod", current)

	// Unconstrained axis accepts anything.
	require.NoError(t, set.Switch("Region", "us-east"))
}

func TestSetUndeclaredHandler(t *testing.T) {
	set := ctxhandler.NewSet(nil)

	_, err := set.Current("Profile")
	assert.ErrorIs(t, err, domain.ErrNoContextHandler)

	err = set.Switch("Profile", "dev")
	assert.ErrorIs(t, err, domain.ErrNoContextHandler)
}

func TestSetUnknownContextValue(t *testing.T) {
	set := ctxhandler.NewSet([]ctxhandler.Handler{
		{Name: "Profile", Default: "dev", Values: []string{"dev", "prod"}},
	})

	err := set.Switch("Profile", "staging")
	assert.ErrorIs(t, err, domain.ErrUnknownContext)

	// Failed switch leaves the slot untouched.
	current, err := set.Current("Profile")
	require.NoError(t, err)
	assert.Equal(t, "dev", current)
}
