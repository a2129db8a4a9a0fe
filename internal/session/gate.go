// Package session owns the bearer credential lifecycle: set on
// successful authentication, cleared on logout or when the server
// rejects it. The Gate is the single writer; every networked component
// reads through it.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"eventdeck/internal/credential"
)

// ErrAuthRequired is returned when a protected operation is attempted
// without a credential. It is raised before any network call.
var ErrAuthRequired = errors.New("authentication required")

// tokenKey is the key the credential is stored under in the backing store.
const tokenKey = "access-token"

// Gate resolves and owns the current session credential.
type Gate struct {
	mu     sync.Mutex
	store  credential.Store
	logger *slog.Logger

	token  string
	loaded bool
}

// NewGate creates a Gate backed by the given credential store. The
// persisted token, if any, is loaded lazily on first access.
func NewGate(store credential.Store, logger *slog.Logger) *Gate {
	return &Gate{store: store, logger: logger}
}

// Token returns the current credential and whether one is present.
func (g *Gate) Token() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.loadLocked()
	return g.token, g.token != ""
}

// Require returns the current credential, or ErrAuthRequired when none
// is present. Callers must check this before issuing protected requests.
func (g *Gate) Require() (string, error) {
	token, ok := g.Token()
	if !ok {
		return "", ErrAuthRequired
	}
	return token, nil
}

// Set stores a new credential after successful authentication.
func (g *Gate) Set(token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.token = token
	g.loaded = true
	if err := g.store.Set(tokenKey, token); err != nil {
		return err
	}
	return nil
}

// Clear removes the credential, e.g. on explicit logout.
func (g *Gate) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.token = ""
	g.loaded = true
	return g.store.Delete(tokenKey)
}

// Invalidate drops the credential after the server rejected it. A
// single rejected call invalidates the whole session; the persisted
// copy is removed as well so the next start goes through auth again.
func (g *Gate) Invalidate() {
	if err := g.Clear(); err != nil {
		g.logger.Warn("clearing rejected credential", "error", err)
	}
}

// loadLocked reads the persisted token once. Storage errors are
// treated as an absent credential; auth can always be redone.
func (g *Gate) loadLocked() {
	if g.loaded {
		return
	}
	g.loaded = true

	token, err := g.store.Get(tokenKey)
	if err != nil {
		if !errors.Is(err, credential.ErrNotFound) {
			g.logger.Warn("loading stored credential", "error", err)
		}
		return
	}
	g.token = token
}
