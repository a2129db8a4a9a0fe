package testutil

import (
	"testing"

	"eventdeck/internal/credential"
	"eventdeck/internal/logging"
	"eventdeck/internal/session"
)

// NewAuthedGate creates a session gate backed by an in-memory credential
// store that already holds a token, so protected operations proceed.
func NewAuthedGate(t *testing.T) *session.Gate {
	t.Helper()

	g := session.NewGate(credential.NewMemory(), logging.Discard())
	if err := g.Set("test-token"); err != nil {
		t.Fatalf("seeding test credential: %v", err)
	}
	return g
}

// NewEmptyGate creates a session gate with no stored credential, for
// exercising the unauthenticated paths.
func NewEmptyGate(t *testing.T) *session.Gate {
	t.Helper()

	return session.NewGate(credential.NewMemory(), logging.Discard())
}
