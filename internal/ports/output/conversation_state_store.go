package output

import "picturedrive/internal/domain"

// ConversationStateStore interface - Output port
// Holds the pending multi-turn flow of each chat participant. Every method is
// atomic with respect to the other methods for the same participant, so a
// caller that reads and advances a flow with Take or Swap can never observe a
// half-written state. Implementations must be safe for concurrent use.
type ConversationStateStore interface {
	// Get returns the pending state of participantID. Expired states are
	// removed and reported as missing.
	Get(participantID string) (domain.ConversationState, bool)

	// Set stores state, replacing any previous one, and refreshes its UpdatedAt.
	Set(state domain.ConversationState)

	// Take returns and removes the pending state in one step.
	Take(participantID string) (domain.ConversationState, bool)

	// Swap stores state and returns the one it replaced, if any.
	Swap(state domain.ConversationState) (domain.ConversationState, bool)

	// Delete removes the pending state. Deleting a missing state is not an error.
	Delete(participantID string)
}
