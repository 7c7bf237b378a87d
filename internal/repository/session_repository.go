package repository

import (
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
)

// SessionRepository keeps one cart state per browsing session
type SessionRepository interface {
	Get(sessionID string) cart.State
	Update(sessionID string, fn func(cart.State) cart.State) cart.State
}

// InMemorySessionRepository implements SessionRepository with a map.
// Sessions are never shared and disappear with the process.
type InMemorySessionRepository struct {
	mu      sync.Mutex
	states  map[string]cart.State
	metrics *metrics.Metrics
}

// NewInMemorySessionRepository creates an empty session repository.
// The session count is reported to m; m may be nil.
func NewInMemorySessionRepository(m *metrics.Metrics) *InMemorySessionRepository {
	return &InMemorySessionRepository{
		states:  make(map[string]cart.State),
		metrics: m,
	}
}

// Get returns the session state, or the initial state for unknown sessions
func (r *InMemorySessionRepository) Get(sessionID string) cart.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[sessionID]
	if !ok {
		return cart.NewState()
	}
	return state
}

// Update applies fn to the session state and stores the result.
// Updates to the same session are serialised.
func (r *InMemorySessionRepository) Update(sessionID string, fn func(cart.State) cart.State) cart.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[sessionID]
	if !ok {
		state = cart.NewState()
	}
	state = fn(state)
	r.states[sessionID] = state
	if !ok {
		r.metrics.SetSessions(len(r.states))
	}
	return state
}

var _ SessionRepository = (*InMemorySessionRepository)(nil)
