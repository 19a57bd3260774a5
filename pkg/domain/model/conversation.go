package model

import (
	"time"

	"github.com/habib-lab/habib/pkg/domain/types"
)

// Message is a single turn in a conversation. Messages are immutable once
// created; conversations grow by appending only.
type Message struct {
	Role      types.Role `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewUserMessage creates a user message stamped with the current time
func NewUserMessage(content string) Message {
	return Message{
		Role:      types.RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssistantMessage creates an assistant message stamped with the current time
func NewAssistantMessage(content string) Message {
	return Message{
		Role:      types.RoleAssistant,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// Conversation is the append-only message log for one chat session,
// keyed by its ConversationID.
type Conversation struct {
	ID        types.ConversationID `json:"conversation_id"`
	SubjectID types.SubjectID      `json:"subject"`
	Messages  []Message            `json:"messages"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// RecentMessages returns up to limit of the most recent messages in
// original (oldest-first) order.
func (c *Conversation) RecentMessages(limit int) []Message {
	if limit <= 0 || len(c.Messages) <= limit {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-limit:]
}
