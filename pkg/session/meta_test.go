package session_test

import (
	"testing"

	"github.com/MrSteve2/robotframework-tools/pkg/session"
	"github.com/stretchr/testify/assert"
)

func TestNewMetaDerived(t *testing.T) {
	m := session.NewMeta("Redis", nil)

	assert.Equal(t, "redis", m.Name)
	assert.Equal(t, "Redis", m.Upper)
	assert.Equal(t, "redis_session", m.Identifier)
	assert.Equal(t, "redis_sessions", m.PluralIdentifier)
	assert.Equal(t, "Redis Session", m.Verbose)
	assert.Equal(t, "Redis Sessions", m.PluralVerbose)
}

func TestNewMetaMultiWord(t *testing.T) {
	m := session.NewMeta("MessageQueue", nil)

	assert.Equal(t, "message_queue_session", m.Identifier)
	assert.Equal(t, "Message Queue Session", m.Verbose)
}

func TestNewMetaOverrides(t *testing.T) {
	m := session.NewMeta("Http", &session.MetaDefs{
		Identifier: "connection",
		Verbose:    "HTTP Connection",
	})

	assert.Equal(t, "connection", m.Identifier)
	assert.Equal(t, "connections", m.PluralIdentifier)
	assert.Equal(t, "HTTP Connection", m.Verbose)
	assert.Equal(t, "HTTP Connections", m.PluralVerbose)
}
