package models

import (
	"encoding/json"
	"time"
)

const DefaultConversationTitle = "New chat"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is a chat thread owned by one account.
type Conversation struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry is one message of a conversation. Attachments is a JSON array or nil.
type Entry struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"-"`
	Role           Role            `json:"role"`
	Content        string          `json:"content"`
	Intent         string          `json:"intent,omitempty"`
	Attachments    json.RawMessage `json:"attachments,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

