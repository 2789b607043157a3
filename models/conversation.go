package models

import (
	"time"

	"github.com/google/uuid"
)

// ConversationStatus represents the lifecycle status of an intake conversation
type ConversationStatus string

const (
	ConversationActive    ConversationStatus = "active"
	ConversationCompleted ConversationStatus = "completed"
	ConversationForwarded ConversationStatus = "forwarded"
	ConversationDeclined  ConversationStatus = "declined"
)

// MessageRole identifies the author of a conversation turn
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Conversation represents one intake conversation with a prospective client
type Conversation struct {
	ID        uuid.UUID          `json:"id"`
	Status    ConversationStatus `json:"status"`
	PersonID  *uuid.UUID         `json:"person_id,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Message represents a single turn in the conversation transcript.
// Messages are append-only and never mutated after creation.
type Message struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`
}
