package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Recognised message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is a single turn in a chat session.
type Message struct {
	// Role is the author of the message.
	Role Role

	// Content is the message text.
	Content string

	// CreatedAt is when the message was appended to the session.
	CreatedAt time.Time
}

// Reply is the outcome of one chat turn.
type Reply struct {
	// Answer is the text returned to the user. It is always safe to
	// display: refusals and fallbacks have already been applied.
	Answer string

	// ContextFound reports whether retrieval produced grounding context.
	// When false, Answer is the canonical refusal and no generation
	// backend call was made.
	ContextFound bool
}
