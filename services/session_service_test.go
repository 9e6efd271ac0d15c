package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionLifecycle(t *testing.T) {
	sessions := NewSessionService(testConfig())

	token := sessions.Create()
	assert.True(t, sessions.Validate(token))

	sessions.Destroy(token)
	assert.False(t, sessions.Validate(token))
}

func TestSessionRejectsTamperedToken(t *testing.T) {
	sessions := NewSessionService(testConfig())

	token := sessions.Create()
	id, _, _ := strings.Cut(token, ".")

	assert.False(t, sessions.Validate(id))
	assert.False(t, sessions.Validate(id+".deadbeef"))
	assert.False(t, sessions.Validate(""))
	assert.False(t, sessions.Validate("not-a-token"))
}

func TestSessionExpiry(t *testing.T) {
	sessions := NewSessionService(testConfig())
	sessions.ttl = -time.Second

	token := sessions.Create()
	assert.False(t, sessions.Validate(token))
}

func TestPurgeExpired(t *testing.T) {
	sessions := NewSessionService(testConfig())

	live := sessions.Create()
	sessions.ttl = -time.Second
	sessions.Create()
	sessions.Create()

	assert.Equal(t, 2, sessions.PurgeExpired())
	sessions.ttl = time.Hour
	assert.True(t, sessions.Validate(live))
}
