package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHandler hands out incrementing payloads and records releases.
type fakeHandler struct {
	opened   int
	closed   []any
	closeErr error
}

func (h *fakeHandler) Meta() session.Meta { return session.NewMeta("Fake", nil) }

func (h *fakeHandler) Open(ctx context.Context, args []any, kwargs map[string]any) (any, error) {
	h.opened++
	return h.opened, nil
}

func (h *fakeHandler) Close(payload any) error {
	h.closed = append(h.closed, payload)
	return h.closeErr
}

func TestOpenNamedDuplicateKeepsCurrent(t *testing.T) {
	h := &fakeHandler{}
	set := session.NewSet(h)
	ctx := context.Background()

	require.NoError(t, set.OpenNamed(ctx, "a", nil, nil))
	first, err := set.Current()
	require.NoError(t, err)

	err = set.OpenNamed(ctx, "a", nil, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateSession)

	// Current still points at the first payload; the duplicate open
	// acquired nothing.
	current, err := set.Current()
	require.NoError(t, err)
	assert.Same(t, first, current)
	assert.Equal(t, 1, h.opened)
}

func TestOpenTracksNewSessionOnCloseFailure(t *testing.T) {
	h := &fakeHandler{}
	set := session.NewSet(h)
	ctx := context.Background()

	require.NoError(t, set.Open(ctx, nil, nil))

	h.closeErr = errors.New("release failed")
	err := set.Open(ctx, nil, nil)
	require.Error(t, err)

	// The failed release is reported, but the freshly acquired payload
	// is still tracked and can be closed later.
	current, err := set.Current()
	require.NoError(t, err)
	assert.Equal(t, 2, current.Payload)
	assert.Equal(t, []any{1}, h.closed)

	h.closeErr = nil
	require.NoError(t, set.Close(""))
	assert.Equal(t, []any{1, 2}, h.closed)
}

func TestCloseWithoutSession(t *testing.T) {
	set := session.NewSet(&fakeHandler{})

	err := set.Close("")
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestCloseNamedClearsCurrent(t *testing.T) {
	h := &fakeHandler{}
	set := session.NewSet(h)
	ctx := context.Background()

	require.NoError(t, set.OpenNamed(ctx, "a", nil, nil))
	require.NoError(t, set.Close("a"))

	_, err := set.Current()
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	assert.Equal(t, []any{1}, h.closed, "payload must be released on close")
	assert.Empty(t, set.All())
}

func TestSwitch(t *testing.T) {
	h := &fakeHandler{}
	set := session.NewSet(h)
	ctx := context.Background()

	require.NoError(t, set.OpenNamed(ctx, "a", nil, nil))
	require.NoError(t, set.OpenNamed(ctx, "b", nil, nil))

	require.NoError(t, set.Switch("a"))
	current, err := set.Current()
	require.NoError(t, err)
	assert.Equal(t, "a", current.Name)

	err = set.Switch("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCloseCurrentKeepsOthersOpen(t *testing.T) {
	h := &fakeHandler{}
	set := session.NewSet(h)
	ctx := context.Background()

	require.NoError(t, set.OpenNamed(ctx, "a", nil, nil))
	require.NoError(t, set.OpenNamed(ctx, "b", nil, nil))

	require.NoError(t, set.Close(""))

	_, err := set.Current()
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	all := set.All()
	assert.Contains(t, all, "a")
	assert.NotContains(t, all, "b")
}

func TestUnnamedOpenReplacesUnnamed(t *testing.T) {
	h := &fakeHandler{}
	set := session.NewSet(h)
	ctx := context.Background()

	require.NoError(t, set.Open(ctx, nil, nil))
	require.NoError(t, set.Open(ctx, nil, nil))

	// First unnamed payload released when replaced.
	assert.Equal(t, []any{1}, h.closed)

	current, err := set.Current()
	require.NoError(t, err)
	assert.Equal(t, 2, current.Payload)
}

func TestCloseAll(t *testing.T) {
	h := &fakeHandler{}
	set := session.NewSet(h)
	ctx := context.Background()

	require.NoError(t, set.OpenNamed(ctx, "a", nil, nil))
	require.NoError(t, set.OpenNamed(ctx, "b", nil, nil))
	require.NoError(t, set.Open(ctx, nil, nil))

	require.NoError(t, set.CloseAll())
	assert.Len(t, h.closed, 3)
	assert.Empty(t, set.All())
	_, err := set.Current()
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestCloseReleaseError(t *testing.T) {
	h := &fakeHandler{closeErr: errors.New("connection reset")}
	set := session.NewSet(h)
	ctx := context.Background()

	require.NoError(t, set.OpenNamed(ctx, "a", nil, nil))
	err := set.Close("a")
	require.Error(t, err)

	// Session is gone from the registry even if the release failed.
	assert.Empty(t, set.All())
}

func TestErrorMessagesCarryHandlerName(t *testing.T) {
	set := session.NewSet(&fakeHandler{})
	err := set.Close("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Fake Session")
}
