package domain

import "time"

// FlowStep is the multi-turn input a participant is expected to answer next
type FlowStep int

const (
	// StepIdle - no pending flow
	StepIdle FlowStep = iota
	// StepAwaitingRegistrationUsername - /register was sent without arguments
	StepAwaitingRegistrationUsername
	// StepAwaitingRegistrationPassword - username collected, waiting for its password
	StepAwaitingRegistrationPassword
	// StepAwaitingLoginUsername - /login was sent without arguments
	StepAwaitingLoginUsername
	// StepAwaitingLoginPassword - username collected, waiting for its password
	StepAwaitingLoginPassword
	// StepAwaitingFolderNameForCreate - waiting for the name of a new folder
	StepAwaitingFolderNameForCreate
	// StepAwaitingFolderNameForOpen - waiting for the name of the folder to open
	StepAwaitingFolderNameForOpen
)

var flowStepNames = map[FlowStep]string{
	StepIdle:                         "idle",
	StepAwaitingRegistrationUsername: "awaiting_registration_username",
	StepAwaitingRegistrationPassword: "awaiting_registration_password",
	StepAwaitingLoginUsername:        "awaiting_login_username",
	StepAwaitingLoginPassword:        "awaiting_login_password",
	StepAwaitingFolderNameForCreate:  "awaiting_folder_name_for_create",
	StepAwaitingFolderNameForOpen:    "awaiting_folder_name_for_open",
}

// String returns the log name of the step
func (s FlowStep) String() string {
	if name, ok := flowStepNames[s]; ok {
		return name
	}
	return "unknown"
}

// RequiresAuthentication reports whether the step only makes sense for a logged in participant
func (s FlowStep) RequiresAuthentication() bool {
	return s == StepAwaitingFolderNameForCreate || s == StepAwaitingFolderNameForOpen
}

// ConversationState represents the pending flow of one chat participant
type ConversationState struct {
	ParticipantID string    // Participant identifier
	Step          FlowStep  // Current step
	Username      string    // Collected while awaiting the matching password
	UpdatedAt     time.Time // For expiration checking
}

// NewConversationState creates a state for participantID at step
func NewConversationState(participantID string, step FlowStep) ConversationState {
	return ConversationState{
		ParticipantID: participantID,
		Step:          step,
		UpdatedAt:     time.Now(),
	}
}

// Advance returns the state moved to step, carrying username forward
func (s ConversationState) Advance(step FlowStep, username string) ConversationState {
	s.Step = step
	s.Username = username
	s.UpdatedAt = time.Now()
	return s
}

// IsPending reports whether a flow is waiting for input
func (s ConversationState) IsPending() bool {
	return s.Step != StepIdle
}

// IsExpired checks if the state has been idle longer than timeout.
// A non-positive timeout never expires.
func (s ConversationState) IsExpired(timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	return time.Since(s.UpdatedAt) > timeout
}
