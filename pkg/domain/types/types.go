package types

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// subjectIDPattern allows alphanumeric subject names such as "Computer" or
// "Math", optionally with hyphens or underscores.
var subjectIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// SubjectID identifies one corpus partition (one textbook subject)
type SubjectID string

// Validate checks if the SubjectID is valid
func (s SubjectID) Validate() error {
	if s == "" {
		return goerr.New("subject ID cannot be empty")
	}
	if !subjectIDPattern.MatchString(string(s)) {
		return goerr.New("subject ID must be alphanumeric with hyphens or underscores", goerr.V("id", s))
	}
	return nil
}

// String returns the string representation of SubjectID
func (s SubjectID) String() string {
	return string(s)
}

// ConversationID is a UUID-based identifier for a conversation
type ConversationID string

// NewConversationID generates a new UUID v4 ConversationID
func NewConversationID() ConversationID {
	return ConversationID(uuid.New().String())
}

// Validate checks if the ConversationID is valid
func (c ConversationID) Validate() error {
	if c == "" {
		return goerr.New("conversation ID cannot be empty")
	}
	return nil
}

// String returns the string representation of ConversationID
func (c ConversationID) String() string {
	return string(c)
}

// PassageID is a UUID-based identifier for a corpus passage
type PassageID string

// NewPassageID generates a new UUID v4 PassageID
func NewPassageID() PassageID {
	return PassageID(uuid.New().String())
}

// String returns the string representation of PassageID
func (p PassageID) String() string {
	return string(p)
}
