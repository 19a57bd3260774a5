package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrUnknownSubject       = errors.New("unknown subject")
	ErrConversationNotFound = errors.New("conversation not found")

	// Validation errors
	ErrEmptyMessage = errors.New("message is required")
)

// Context keys for error values
const (
	SubjectIDKey      = "subject_id"
	ConversationIDKey = "conversation_id"
)
