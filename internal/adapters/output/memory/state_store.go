package memory

import (
	"sync"
	"time"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure StateStore implements ConversationStateStore interface
var _ output.ConversationStateStore = (*StateStore)(nil)

// StateStore struct - Output adapter for in-memory conversation states
// Uses sync.Map so that every operation on one participant is a single atomic
// map operation. States idle longer than the timeout are dropped lazily.
type StateStore struct {
	states  sync.Map
	timeout time.Duration
}

// NewStateStore creates a new in-memory state store.
// timeout: Duration after which a pending flow expires, zero disables expiry
func NewStateStore(timeout time.Duration) *StateStore {
	return &StateStore{timeout: timeout}
}

// GetTimeout returns the configured expiry
func (m *StateStore) GetTimeout() time.Duration {
	return m.timeout
}

// Get returns the pending state of a participant. An expired state is deleted
// and reported as missing.
func (m *StateStore) Get(participantID string) (domain.ConversationState, bool) {
	value, exists := m.states.Load(participantID)
	if !exists {
		return domain.ConversationState{}, false
	}
	return m.live(participantID, value)
}

// Set stores state with a fresh UpdatedAt
func (m *StateStore) Set(state domain.ConversationState) {
	state.UpdatedAt = time.Now()
	m.states.Store(state.ParticipantID, state)
}

// Take returns and removes the pending state
func (m *StateStore) Take(participantID string) (domain.ConversationState, bool) {
	value, loaded := m.states.LoadAndDelete(participantID)
	if !loaded {
		return domain.ConversationState{}, false
	}
	state, ok := value.(domain.ConversationState)
	if !ok || state.IsExpired(m.timeout) {
		return domain.ConversationState{}, false
	}
	return state, true
}

// Swap stores state with a fresh UpdatedAt and returns the live state it replaced
func (m *StateStore) Swap(state domain.ConversationState) (domain.ConversationState, bool) {
	state.UpdatedAt = time.Now()
	previous, loaded := m.states.Swap(state.ParticipantID, state)
	if !loaded {
		return domain.ConversationState{}, false
	}
	prev, ok := previous.(domain.ConversationState)
	if !ok || prev.IsExpired(m.timeout) {
		return domain.ConversationState{}, false
	}
	return prev, true
}

// Delete removes the pending state. Deleting a missing state is a no-op.
func (m *StateStore) Delete(participantID string) {
	m.states.Delete(participantID)
}

// live returns value as a state unless it is malformed or expired, in which
// case it is removed. CompareAndDelete keeps a concurrent Set from being lost.
func (m *StateStore) live(participantID string, value any) (domain.ConversationState, bool) {
	state, ok := value.(domain.ConversationState)
	if !ok || state.IsExpired(m.timeout) {
		m.states.CompareAndDelete(participantID, value)
		return domain.ConversationState{}, false
	}
	return state, true
}
